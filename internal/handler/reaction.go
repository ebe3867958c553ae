package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"showhub/internal/httputil"
	"showhub/internal/model"
	"showhub/internal/service"
	"showhub/internal/transport/http/middleware"
)

type ReactionHandler struct {
	reactionService *service.ReactionService
}

func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// LikeProduct handles POST /products/:id/like
func (h *ReactionHandler) LikeProduct(w http.ResponseWriter, r *http.Request) {
	h.toggleProduct(w, r, h.reactionService.LikeProduct, "like")
}

// UnlikeProduct handles DELETE /products/:id/like
func (h *ReactionHandler) UnlikeProduct(w http.ResponseWriter, r *http.Request) {
	h.toggleProduct(w, r, h.reactionService.UnlikeProduct, "unlike")
}

// FavoriteProduct handles POST /products/:id/favorite
func (h *ReactionHandler) FavoriteProduct(w http.ResponseWriter, r *http.Request) {
	h.toggleProduct(w, r, h.reactionService.FavoriteProduct, "favorite")
}

// UnfavoriteProduct handles DELETE /products/:id/favorite
func (h *ReactionHandler) UnfavoriteProduct(w http.ResponseWriter, r *http.Request) {
	h.toggleProduct(w, r, h.reactionService.UnfavoriteProduct, "unfavorite")
}

// LikeComment handles POST /comments/:id/like
func (h *ReactionHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.toggleComment(w, r, h.reactionService.LikeComment, "like comment")
}

// UnlikeComment handles DELETE /comments/:id/like
func (h *ReactionHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	h.toggleComment(w, r, h.reactionService.UnlikeComment, "unlike comment")
}

// LikeStatus handles GET /products/:id/like-status
// Works for anonymous viewers, where has_reacted is always false.
func (h *ReactionHandler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid product ID")
		return
	}

	status, err := h.reactionService.LikeStatus(r.Context(), middleware.ViewerID(r.Context()), productID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			httputil.WriteNotFound(w, "Product not found")
			return
		}
		log.Printf("[ERROR] Like status handler: product=%d err=%v", productID, err)
		httputil.WriteInternalError(w, "Failed to get like status")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

// toggleFunc is the shared signature of all reaction toggles.
type toggleFunc func(ctx context.Context, userID, targetID int64) (*model.ToggleResponse, error)

func (h *ReactionHandler) toggleProduct(w http.ResponseWriter, r *http.Request, toggle toggleFunc, action string) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	productID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid product ID")
		return
	}

	resp, err := toggle(r.Context(), userID, productID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			httputil.WriteNotFound(w, "Product not found")
		case errors.Is(err, model.ErrOwnProduct):
			httputil.WriteForbidden(w, "You cannot react to your own product")
		case errors.Is(err, model.ErrAlreadyLiked), errors.Is(err, model.ErrAlreadyFavorited):
			httputil.WriteConflict(w, "Already reacted to this product")
		case errors.Is(err, model.ErrNotLiked), errors.Is(err, model.ErrNotFavorited):
			httputil.WriteConflict(w, "No reaction to remove")
		default:
			log.Printf("[ERROR] %s handler: user=%d product=%d err=%v", action, userID, productID, err)
			httputil.WriteInternalError(w, "Failed to update reaction")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *ReactionHandler) toggleComment(w http.ResponseWriter, r *http.Request, toggle toggleFunc, action string) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	resp, err := toggle(r.Context(), userID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteConflict(w, "Already liked this comment")
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteConflict(w, "No like to remove")
		default:
			log.Printf("[ERROR] %s handler: user=%d comment=%d err=%v", action, userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to update reaction")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
