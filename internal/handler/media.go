package handler

import (
	"errors"
	"net/http"
	"strings"

	"showhub/internal/httputil"
	"showhub/internal/model"
	"showhub/internal/service"
	"showhub/internal/transport/http/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadProductImage handles POST /media/products
// Accepts a multipart "image" field, normalizes it and uploads to
// storage. The returned URL is what clients put in a product's gallery.
func (h *MediaHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxProductImageSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 8MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	upload, err := h.mediaService.UploadProductImage(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 8MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			httputil.WriteInternalError(w, "Failed to upload image")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, upload)
}
