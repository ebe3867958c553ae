package model

import "errors"

// ReactionStatus is the read-path result for a single target.
type ReactionStatus struct {
	Count      int  `json:"count"`
	HasReacted bool `json:"has_reacted"`
}

// ToggleResponse is returned by all reaction toggle endpoints.
type ToggleResponse struct {
	Success  bool `json:"success"`
	NewCount int  `json:"new_count"`
	NewState bool `json:"new_state"`
}

// Reaction errors. Toggles are deliberately not idempotent: reacting
// twice, or removing an absent reaction, is a conflict the client
// reconciles by refetching.
var (
	ErrAlreadyLiked     = errors.New("already liked")
	ErrNotLiked         = errors.New("not liked yet")
	ErrAlreadyFavorited = errors.New("already favorited")
	ErrNotFavorited     = errors.New("not favorited yet")
	ErrOwnProduct       = errors.New("cannot react to your own product")
)
