package repository

import (
	"context"
	"time"

	"showhub/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type CategoryRepository interface {
	// List returns all categories ordered by display_order.
	List(ctx context.Context) ([]model.Category, error)
	// CountSelectableByIDs counts how many of the given IDs exist as
	// normal (user-selectable) categories. Used to validate product
	// category sets.
	CountSelectableByIDs(ctx context.Context, ids []int64) (int, error)
}

// FeedFilter is the resolved feed request the product repository turns
// into SQL. The service layer decides the mode, effective status and
// ordering; the repository only executes it.
type FeedFilter struct {
	// SubjectID and Type select relationship mode (created/liked/favorited
	// products of the subject). Type == "" means public mode.
	SubjectID *int64
	Type      string

	// Status restricts the product lifecycle status ("" means PUBLISHED).
	Status string

	// CategorySlug restricts public mode to one category by slug.
	CategorySlug string

	// CreatedSince applies the recency window of the synthetic "new" feed.
	CreatedSince *time.Time

	// OrderByCreated switches from (likes DESC, id DESC) to
	// (created_at DESC, id DESC).
	OrderByCreated bool
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product, categoryIDs []int64) error
	Update(ctx context.Context, p *model.Product, categoryIDs []int64) error
	Delete(ctx context.Context, productID int64) error
	GetByID(ctx context.Context, productID int64) (*model.Product, error)
	GetOwnerID(ctx context.Context, productID int64) (int64, error)
	Exists(ctx context.Context, productID int64) (bool, error)

	// FeedPage returns one cursor-paginated page matching the filter.
	FeedPage(ctx context.Context, f FeedFilter, cursor *string, limit int) ([]model.Product, *string, error)

	// FeedCandidates returns the full unpaginated candidate set matching
	// the filter plus a free-text term (matched against name, description,
	// author username and category names). Ranking happens in memory in
	// the service.
	FeedCandidates(ctx context.Context, f FeedFilter, search string) ([]model.Product, error)
}

// ReactionRepository owns the join-row tables and their denormalized
// counters. Every toggle runs join-row mutation and counter update in one
// transaction; duplicates surface as the corresponding Conflict sentinel.
type ReactionRepository interface {
	AddLike(ctx context.Context, userID, productID int64) (newCount int, err error)
	RemoveLike(ctx context.Context, userID, productID int64) (newCount int, err error)
	AddFavorite(ctx context.Context, userID, productID int64) (newCount int, err error)
	RemoveFavorite(ctx context.Context, userID, productID int64) (newCount int, err error)
	AddCommentLike(ctx context.Context, userID, commentID int64) (newCount int, err error)
	RemoveCommentLike(ctx context.Context, userID, commentID int64) (newCount int, err error)

	// Batch set-membership reads used for viewer annotation (two queries
	// per feed page, never per-item).
	LikedSet(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error)
	FavoritedSet(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error)
	CommentLikedSet(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// Delete removes the row; thread and comment-like cascades are
	// enforced by the schema's foreign keys.
	Delete(ctx context.Context, commentID int64) error
	// ListRoots returns top-level comments of a product, newest first,
	// with authors joined.
	ListRoots(ctx context.Context, productID int64) ([]model.Comment, error)
	// ListDescendants returns all replies grouped under the given roots,
	// oldest first, with authors joined.
	ListDescendants(ctx context.Context, rootIDs []int64) ([]model.Comment, error)
}

type FollowRepository interface {
	// Create inserts the follow edge. Returns false when it already
	// existed.
	Create(ctx context.Context, followerID, followingID int64) (bool, error)
	Delete(ctx context.Context, followerID, followingID int64) error
	GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
}
