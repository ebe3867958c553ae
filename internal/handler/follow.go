package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"showhub/internal/httputil"
	"showhub/internal/model"
	"showhub/internal/service"
	"showhub/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow handles POST /users/:id/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followingID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.followService.Follow(r.Context(), followerID, followingID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, "You cannot follow yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, "Already following this user")
		default:
			log.Printf("[ERROR] Follow handler: follower=%d following=%d err=%v", followerID, followingID, err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Followed successfully",
	})
}

// Unfollow handles DELETE /users/:id/follow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followingID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.followService.Unfollow(r.Context(), followerID, followingID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, "You cannot unfollow yourself")
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteConflict(w, "Not following this user")
		default:
			log.Printf("[ERROR] Unfollow handler: follower=%d following=%d err=%v", followerID, followingID, err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Unfollowed successfully",
	})
}

// GetFollowers handles GET /users/:id/followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.followService.GetFollowers, "followers")
}

// GetFollowing handles GET /users/:id/following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.followService.GetFollowing, "following")
}

func (h *FollowHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	fetch func(ctx context.Context, userID int64, cursor *string, limit int) (*model.FollowListResponse, error),
	name string,
) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
	}

	resp, err := fetch(r.Context(), userID, cursor, limit)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCursor) {
			httputil.WriteBadRequest(w, "Invalid cursor")
			return
		}
		log.Printf("[ERROR] List %s handler: user=%d err=%v", name, userID, err)
		httputil.WriteInternalError(w, "Failed to get "+name)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
