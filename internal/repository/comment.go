package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"showhub/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a comment. ParentID/RootID are resolved by the service
// before the insert; the schema's CHECK keeps the pair consistent.
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (product_id, user_id, content, parent_id, root_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, likes, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.ProductID, c.UserID, c.Content, c.ParentID, c.RootID,
	).Scan(&c.ID, &c.Likes, &c.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return model.ErrProductNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a single comment without joins.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, product_id, user_id, content, parent_id, root_id, likes, created_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Delete removes the comment row. For a thread root the root_id cascade
// removes every descendant and their comment_likes; for a reply the
// parent_id SET NULL keeps deeper replies in place.
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// commentRow scans a comment joined with its author.
type commentRow struct {
	ID        int64     `db:"id"`
	ProductID int64     `db:"product_id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	ParentID  *int64    `db:"parent_id"`
	RootID    *int64    `db:"root_id"`
	Likes     int       `db:"likes"`
	CreatedAt time.Time `db:"created_at"`

	AuthorID       int64   `db:"author.id"`
	AuthorUsername string  `db:"author.username"`
	AuthorAvatar   *string `db:"author.avatar_url"`
}

const commentSelect = `
	SELECT c.id, c.product_id, c.user_id, c.content, c.parent_id, c.root_id,
	       c.likes, c.created_at,
	       u.id AS "author.id", u.username AS "author.username",
	       u.avatar_url AS "author.avatar_url"
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:        row.ID,
		ProductID: row.ProductID,
		UserID:    row.UserID,
		Content:   row.Content,
		ParentID:  row.ParentID,
		RootID:    row.RootID,
		Likes:     row.Likes,
		CreatedAt: row.CreatedAt,
		Author: &model.UserSummary{
			ID:        row.AuthorID,
			Username:  row.AuthorUsername,
			AvatarURL: row.AuthorAvatar,
		},
	}
}

// ListRoots returns top-level comments of a product, newest first.
func (r *commentRepository) ListRoots(ctx context.Context, productID int64) ([]model.Comment, error) {
	query := commentSelect + `
		WHERE c.product_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.id DESC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, productID); err != nil {
		return nil, fmt.Errorf("list root comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

// ListDescendants returns every reply grouped under the given roots,
// oldest first (chronological reply order).
func (r *commentRepository) ListDescendants(ctx context.Context, rootIDs []int64) ([]model.Comment, error) {
	if len(rootIDs) == 0 {
		return []model.Comment{}, nil
	}

	query := commentSelect + `
		WHERE c.root_id = ANY($1)
		ORDER BY c.created_at ASC, c.id ASC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(rootIDs)); err != nil {
		return nil, fmt.Errorf("list descendant comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}
