package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"showhub/internal/model"
)

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

// productRow scans a product joined with its author.
type productRow struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Detail      *string   `db:"detail"`
	WebsiteURL  string    `db:"website_url"`
	ImageURL    *string   `db:"image_url"`
	ImagesRaw   []byte    `db:"images"`
	Status      string    `db:"status"`
	Likes       int       `db:"likes"`
	Favorites   int       `db:"favorites"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	AuthorID       int64   `db:"author.id"`
	AuthorUsername string  `db:"author.username"`
	AuthorAvatar   *string `db:"author.avatar_url"`
	AuthorTitle    *string `db:"author.title"`
}

const productSelect = `
	SELECT p.id, p.user_id, p.name, p.description, p.detail, p.website_url,
	       p.image_url, p.images, p.status, p.likes, p.favorites,
	       p.created_at, p.updated_at,
	       u.id AS "author.id", u.username AS "author.username",
	       u.avatar_url AS "author.avatar_url", u.title AS "author.title"
	FROM products p
	JOIN users u ON u.id = p.user_id
`

func (row productRow) toProduct() model.Product {
	p := model.Product{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		Description: row.Description,
		Detail:      row.Detail,
		WebsiteURL:  row.WebsiteURL,
		ImageURL:    row.ImageURL,
		Status:      row.Status,
		Likes:       row.Likes,
		Favorites:   row.Favorites,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Author: &model.UserSummary{
			ID:        row.AuthorID,
			Username:  row.AuthorUsername,
			AvatarURL: row.AuthorAvatar,
			Title:     row.AuthorTitle,
		},
	}
	if len(row.ImagesRaw) > 0 {
		// Corrupt gallery JSON leaves Images empty rather than failing the page.
		_ = json.Unmarshal(row.ImagesRaw, &p.Images)
	}
	return p
}

// buildFeedWhere turns a FeedFilter into WHERE conditions. Placeholder
// numbering continues from the supplied args slice so callers can append
// cursor and limit parameters afterwards.
func buildFeedWhere(f FeedFilter, args []interface{}) ([]string, []interface{}) {
	var conds []string

	status := f.Status
	if status == "" {
		status = model.StatusPublished
	}
	args = append(args, status)
	conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))

	switch f.Type {
	case model.FeedTypeCreated:
		args = append(args, *f.SubjectID)
		conds = append(conds, fmt.Sprintf("p.user_id = $%d", len(args)))
	case model.FeedTypeLiked:
		args = append(args, *f.SubjectID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM likes l WHERE l.product_id = p.id AND l.user_id = $%d)", len(args)))
	case model.FeedTypeFavorited:
		args = append(args, *f.SubjectID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM favorites f WHERE f.product_id = p.id AND f.user_id = $%d)", len(args)))
	default:
		if f.CategorySlug != "" {
			args = append(args, f.CategorySlug)
			conds = append(conds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id"+
					" WHERE pc.product_id = p.id AND c.slug = $%d)", len(args)))
		}
		if f.CreatedSince != nil {
			args = append(args, *f.CreatedSince)
			conds = append(conds, fmt.Sprintf("p.created_at >= $%d", len(args)))
		}
	}

	return conds, args
}

// FeedPage executes one cursor-paginated feed query. Fetches limit+1 rows
// to detect whether a next page exists.
func (r *productRepository) FeedPage(ctx context.Context, f FeedFilter, cursor *string, limit int) ([]model.Product, *string, error) {
	conds, args := buildFeedWhere(f, nil)

	var orderBy string
	if f.OrderByCreated {
		orderBy = "ORDER BY p.created_at DESC, p.id DESC"
	} else {
		orderBy = "ORDER BY p.likes DESC, p.id DESC"
	}

	if cursor != nil {
		c, err := parseFeedCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", model.ErrInvalidCursor, err)
		}
		if f.OrderByCreated {
			args = append(args, c.Val, c.ID)
			conds = append(conds, fmt.Sprintf(
				"(p.created_at, p.id) < (timestamptz 'epoch' + $%d * interval '1 microsecond', $%d)",
				len(args)-1, len(args)))
		} else {
			args = append(args, c.Val, c.ID)
			conds = append(conds, fmt.Sprintf(
				"(p.likes, p.id) < ($%d, $%d)", len(args)-1, len(args)))
		}
	}

	args = append(args, limit+1)
	query := productSelect +
		" WHERE " + strings.Join(conds, " AND ") +
		" " + orderBy +
		fmt.Sprintf(" LIMIT $%d", len(args))

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("feed page: %w", err)
	}

	var nextCursor *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		var c string
		if f.OrderByCreated {
			c = formatFeedCursor(last.ID, createdCursorVal(last.CreatedAt))
		} else {
			c = formatFeedCursor(last.ID, int64(last.Likes))
		}
		nextCursor = &c
	}

	products := make([]model.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toProduct()
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, nil, err
	}

	return products, nextCursor, nil
}

// FeedCandidates returns the full candidate set for an in-memory search
// ranking pass. The term is matched case-insensitively against product
// name, description, author username and associated category names.
func (r *productRepository) FeedCandidates(ctx context.Context, f FeedFilter, search string) ([]model.Product, error) {
	conds, args := buildFeedWhere(f, nil)

	args = append(args, "%"+search+"%")
	n := len(args)
	conds = append(conds, fmt.Sprintf(
		"(p.name ILIKE $%d OR p.description ILIKE $%d OR u.username ILIKE $%d"+
			" OR EXISTS (SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id"+
			" WHERE pc.product_id = p.id AND c.name ILIKE $%d))", n, n, n, n))

	query := productSelect +
		" WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY p.likes DESC, p.id DESC"

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("feed candidates: %w", err)
	}

	products := make([]model.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toProduct()
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// GetByID retrieves a single product with author and categories.
func (r *productRepository) GetByID(ctx context.Context, productID int64) (*model.Product, error) {
	query := productSelect + " WHERE p.id = $1"

	var row productRow
	err := r.db.GetContext(ctx, &row, query, productID)
	if err == sql.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	products := []model.Product{row.toProduct()}
	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// Create inserts a product and its category associations in a transaction.
func (r *productRepository) Create(ctx context.Context, p *model.Product, categoryIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query := `
		INSERT INTO products (user_id, name, description, detail, website_url, image_url, images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, likes, favorites, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		p.UserID, p.Name, p.Description, p.Detail, p.WebsiteURL, p.ImageURL, imagesJSON, p.Status,
	).Scan(&p.ID, &p.Likes, &p.Favorites, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrProductNameExists
		}
		return fmt.Errorf("insert product: %w", err)
	}

	if err := insertProductCategories(ctx, tx, p.ID, categoryIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// Update rewrites a product and, when categoryIDs is non-nil, resets its
// category associations, all in one transaction.
func (r *productRepository) Update(ctx context.Context, p *model.Product, categoryIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, detail = $3, website_url = $4,
		    image_url = $5, images = $6, status = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		p.Name, p.Description, p.Detail, p.WebsiteURL, p.ImageURL, imagesJSON, p.Status, p.ID,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.ErrProductNotFound
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrProductNameExists
		}
		return fmt.Errorf("update product: %w", err)
	}

	if categoryIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, p.ID); err != nil {
			return fmt.Errorf("clear product categories: %w", err)
		}
		if err := insertProductCategories(ctx, tx, p.ID, categoryIDs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a product. Comments, reactions and category associations
// are removed by the schema's cascades.
func (r *productRepository) Delete(ctx context.Context, productID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// GetOwnerID returns the owning user of a product.
func (r *productRepository) GetOwnerID(ctx context.Context, productID int64) (int64, error) {
	var ownerID int64
	err := r.db.GetContext(ctx, &ownerID, `SELECT user_id FROM products WHERE id = $1`, productID)
	if err == sql.ErrNoRows {
		return 0, model.ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get owner id: %w", err)
	}
	return ownerID, nil
}

// Exists checks if a product exists.
func (r *productRepository) Exists(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID)
	if err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}

// attachCategories loads categories for all products in one query and
// attaches them, preserving product order.
func (r *productRepository) attachCategories(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	type catRow struct {
		ProductID int64 `db:"product_id"`
		model.Category
	}

	query := `
		SELECT pc.product_id, c.id, c.name, c.slug, c.icon, c.type, c.display_order
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY pc.product_id, c.display_order
	`
	var rows []catRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load product categories: %w", err)
	}

	byProduct := make(map[int64][]model.Category)
	for _, row := range rows {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row.Category)
	}
	for i := range products {
		products[i].Categories = byProduct[products[i].ID]
	}
	return nil
}

func insertProductCategories(ctx context.Context, tx *sqlx.Tx, productID int64, categoryIDs []int64) error {
	for _, cid := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`,
			productID, cid)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return model.ErrCategoryNotFound
			}
			return fmt.Errorf("insert product category %d: %w", cid, err)
		}
	}
	return nil
}
