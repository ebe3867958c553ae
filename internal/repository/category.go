package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"showhub/internal/model"
)

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT id, name, slug, icon, type, display_order
		FROM categories
		ORDER BY display_order ASC
	`
	var categories []model.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CountSelectableByIDs counts normal categories among the given IDs.
// System categories ("recommended", "new") back synthetic feeds and are
// not attachable to products.
func (r *categoryRepository) CountSelectableByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM categories WHERE id = ANY($1) AND type = $2`,
		pq.Array(ids), model.CategoryTypeNormal)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
