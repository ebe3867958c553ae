package handler

import (
	"log"
	"net/http"

	"showhub/internal/httputil"
	"showhub/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List handles GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		log.Printf("[ERROR] List categories handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get categories")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
