package model

import "errors"

// Category types: "system" slugs ("recommended", "new") drive synthetic
// feeds and are not selectable on products; "normal" ones are.
const (
	CategoryTypeSystem = "system"
	CategoryTypeNormal = "normal"
)

// Category represents a product category. Categories are seeded once and
// treated as immutable at runtime.
type Category struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Slug         string  `db:"slug" json:"slug"`
	Icon         *string `db:"icon" json:"icon"`
	Type         string  `db:"type" json:"type"`
	DisplayOrder int     `db:"display_order" json:"display_order"`
}

var (
	ErrCategoryNotFound = errors.New("category not found")
)
