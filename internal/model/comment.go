package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a product.
//
// Threads are stored flattened to two tiers: every reply carries ParentID
// (the comment it answered, for "reply to @user" display) and RootID (the
// top-level ancestor it is grouped under). A reply always has RootID set.
// ParentID may later become nil when the answered comment is deleted out
// of the middle of a thread; the reply stays grouped under its root.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	UserID    int64     `db:"user_id" json:"-"`
	Content   string    `db:"content" json:"content"`
	ParentID  *int64    `db:"parent_id" json:"parent_id,omitempty"`
	RootID    *int64    `db:"root_id" json:"root_id,omitempty"`
	Likes     int       `db:"likes" json:"likes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined fields
	Author *UserSummary `json:"author,omitempty"`
}

// ThreadComment is a comment enriched for thread display.
type ThreadComment struct {
	Comment
	HasLiked bool `json:"has_liked"`

	// ReplyToUser names whom this reply addressed. Only set on replies
	// whose parent is not the thread root.
	ReplyToUser *UserSummary `json:"reply_to_user,omitempty"`

	// Replies holds the flattened descendants, oldest first. Only set on
	// thread roots.
	Replies []ThreadComment `json:"replies,omitempty"`
}

// CreateCommentRequest is the request body for posting a comment.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// Comment constraints
const (
	MaxCommentLength = 2000
)

// Comment errors
var (
	ErrCommentNotFound       = errors.New("comment not found")
	ErrParentCommentNotFound = errors.New("parent comment not found")
	ErrNotCommentOwner       = errors.New("not the owner of this comment")
	ErrContentRequired       = errors.New("comment content is required")
	ErrContentTooLong        = errors.New("comment content too long")
)
