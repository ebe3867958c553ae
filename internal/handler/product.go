package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"showhub/internal/httputil"
	"showhub/internal/model"
	"showhub/internal/service"
	"showhub/internal/transport/http/middleware"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetFeed handles GET /products
// Public feed by category, relationship feeds by type+user, and search.
func (h *ProductHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	query := model.FeedQuery{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Type:     r.URL.Query().Get("type"),
		Status:   r.URL.Query().Get("status"),
		ViewerID: middleware.ViewerID(r.Context()),
	}

	if c := r.URL.Query().Get("cursor"); c != "" {
		query.Cursor = &c
	}

	if u := r.URL.Query().Get("user_id"); u != "" {
		targetID, err := strconv.ParseInt(u, 10, 64)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid user_id parameter")
			return
		}
		query.TargetUserID = &targetID
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
		query.Limit = limit
	}

	feed, err := h.productService.GetFeed(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSearchWithCursor):
			httputil.WriteBadRequest(w, "Cursor pagination is not supported with search")
		case errors.Is(err, model.ErrMissingFeedSubject):
			httputil.WriteBadRequest(w, "Invalid feed type or missing subject user")
		case errors.Is(err, model.ErrInvalidStatus):
			httputil.WriteBadRequest(w, "Invalid status filter")
		case errors.Is(err, model.ErrInvalidCursor):
			httputil.WriteBadRequest(w, "Invalid cursor")
		default:
			log.Printf("[ERROR] Get feed handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to get products")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feed)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), productID, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			httputil.WriteNotFound(w, "Product not found")
			return
		}
		log.Printf("[ERROR] Get product handler: product=%d err=%v", productID, err)
		httputil.WriteInternalError(w, "Failed to get product")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), userID, req)
	if err != nil {
		h.writeMutationError(w, err, userID, 0)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req model.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), productID, userID, req)
	if err != nil {
		h.writeMutationError(w, err, userID, productID)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.productService.Delete(r.Context(), productID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			httputil.WriteNotFound(w, "Product not found")
		case errors.Is(err, model.ErrNotProductOwner):
			httputil.WriteForbidden(w, "You can only delete your own products")
		default:
			log.Printf("[ERROR] Delete product handler: user=%d product=%d err=%v", userID, productID, err)
			httputil.WriteInternalError(w, "Failed to delete product")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) writeMutationError(w http.ResponseWriter, err error, userID, productID int64) {
	switch {
	case errors.Is(err, model.ErrProductNotFound):
		httputil.WriteNotFound(w, "Product not found")
	case errors.Is(err, model.ErrNotProductOwner):
		httputil.WriteForbidden(w, "You can only modify your own products")
	case errors.Is(err, model.ErrMissingFields):
		httputil.WriteBadRequest(w, "Name and description are required")
	case errors.Is(err, model.ErrInvalidStatus):
		httputil.WriteBadRequest(w, "Status must be DRAFT or PUBLISHED")
	case errors.Is(err, model.ErrInvalidCategoryCount):
		httputil.WriteBadRequest(w, "Between 1 and 3 categories are required")
	case errors.Is(err, model.ErrCategoryNotFound):
		httputil.WriteBadRequest(w, "One or more categories do not exist")
	case errors.Is(err, model.ErrProductNameExists):
		httputil.WriteConflict(w, "You already have a product with this name")
	default:
		log.Printf("[ERROR] Product mutation handler: user=%d product=%d err=%v", userID, productID, err)
		httputil.WriteInternalError(w, "Failed to save product")
	}
}

// parseIDParam parses a numeric chi URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
