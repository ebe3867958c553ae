package model

import (
	"errors"
	"time"
)

// Product statuses
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Product represents a published (or draft) product entry.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Detail      *string   `db:"detail" json:"detail,omitempty"` // long-form markdown
	WebsiteURL  string    `db:"website_url" json:"website_url"`
	ImageURL    *string   `db:"image_url" json:"image_url"` // cover, first of Images
	Images      []string  `json:"images"`                   // ordered gallery, stored as JSON
	Status      string    `db:"status" json:"status"`
	Likes       int       `db:"likes" json:"likes"`
	Favorites   int       `db:"favorites" json:"favorites"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not columns of products)
	Categories   []Category   `json:"categories,omitempty"`
	Author       *UserSummary `json:"author,omitempty"`
	HasLiked     bool         `json:"has_liked"`
	HasFavorited bool         `json:"has_favorited"`
}

// Feed relationship types: which products of a subject user to return.
const (
	FeedTypeCreated   = "created"
	FeedTypeLiked     = "liked"
	FeedTypeFavorited = "favorited"
)

// FeedQuery describes one feed request after parameter parsing.
// Exactly one of the two modes applies: relationship mode when Type is
// set, public (category) mode otherwise.
type FeedQuery struct {
	Category     string  // category slug; "all"/"recommended" mean no filter, "new" is the recency window
	Search       string  // free-text term; disables cursor pagination
	Type         string  // "", FeedTypeCreated, FeedTypeLiked, FeedTypeFavorited
	TargetUserID *int64  // explicit subject for relationship mode
	ViewerID     *int64  // authenticated viewer, nil for anonymous
	Status       string  // status override, only honored when viewer == subject
	Cursor       *string // compound cursor from the previous page
	Limit        int
}

// FeedResponse is the paginated feed response.
type FeedResponse struct {
	Items      []Product `json:"items"`
	NextCursor *string   `json:"next_cursor,omitempty"`
	HasMore    bool      `json:"has_more"`
}

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Detail      *string  `json:"detail"`
	WebsiteURL  string   `json:"website_url"`
	CategoryIDs []int64  `json:"category_ids"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
}

// UpdateProductRequest is the request body for updating a product.
// Images == nil means "leave the gallery untouched"; an empty non-nil
// slice clears it.
type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Detail      *string  `json:"detail"`
	WebsiteURL  string   `json:"website_url"`
	CategoryIDs []int64  `json:"category_ids"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
}

// Product constraints
const (
	MinProductCategories = 1
	MaxProductCategories = 3

	// NewWindowDays is the recency window for the synthetic "new" feed.
	NewWindowDays = 15
)

// Product errors
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrNotProductOwner      = errors.New("not the owner of this product")
	ErrProductNameExists    = errors.New("a product with this name already exists")
	ErrInvalidCategoryCount = errors.New("between 1 and 3 categories required")
	ErrMissingFields        = errors.New("name and description are required")
	ErrInvalidStatus        = errors.New("invalid product status")
	ErrSearchWithCursor     = errors.New("cursor pagination is not supported with search")
	ErrInvalidCursor        = errors.New("invalid pagination cursor")
	ErrMissingFeedSubject   = errors.New("relationship feed requires a subject user")
)
