package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"showhub/internal/httputil"
	"showhub/internal/model"
	"showhub/internal/service"
	"showhub/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /products/:id/comments
// Posts a root comment, or a reply when parent_id is set.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Post(r.Context(), productID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment too long (max 2000 characters)")
		case errors.Is(err, model.ErrProductNotFound):
			httputil.WriteNotFound(w, "Product not found")
		case errors.Is(err, model.ErrParentCommentNotFound):
			httputil.WriteNotFound(w, "Parent comment not found")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d product=%d err=%v", userID, productID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// List handles GET /products/:id/comments
// Returns the flattened two-tier comment threads.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid product ID")
		return
	}

	thread, err := h.commentService.ListThread(r.Context(), productID, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			httputil.WriteNotFound(w, "Product not found")
			return
		}
		log.Printf("[ERROR] List comments handler: product=%d err=%v", productID, err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"comments": thread,
	})
}

// Delete handles DELETE /comments/:id
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.commentService.Delete(r.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only delete your own comments")
		default:
			log.Printf("[ERROR] Delete comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	})
}
