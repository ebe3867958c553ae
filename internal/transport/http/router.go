package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"showhub/internal/handler"
	"showhub/internal/httputil"
	authmw "showhub/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	ProductHandler  *handler.ProductHandler
	CommentHandler  *handler.CommentHandler
	ReactionHandler *handler.ReactionHandler
	CategoryHandler *handler.CategoryHandler
	FollowHandler   *handler.FollowHandler
	MediaHandler    *handler.MediaHandler
	JWTSecret       string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	r.Get("/categories", cfg.CategoryHandler.List)

	// Public reads with optional authentication (viewer annotation)
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/products", cfg.ProductHandler.GetFeed)
		r.Get("/products/{id}", cfg.ProductHandler.GetByID)
		r.Get("/products/{id}/comments", cfg.CommentHandler.List)
		r.Get("/products/{id}/like-status", cfg.ReactionHandler.LikeStatus)
		r.Get("/users/{id}/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/users/{id}/following", cfg.FollowHandler.GetFollowing)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)

		r.Post("/products", cfg.ProductHandler.Create)
		r.Put("/products/{id}", cfg.ProductHandler.Update)
		r.Delete("/products/{id}", cfg.ProductHandler.Delete)

		r.Post("/products/{id}/like", cfg.ReactionHandler.LikeProduct)
		r.Delete("/products/{id}/like", cfg.ReactionHandler.UnlikeProduct)
		r.Post("/products/{id}/favorite", cfg.ReactionHandler.FavoriteProduct)
		r.Delete("/products/{id}/favorite", cfg.ReactionHandler.UnfavoriteProduct)

		r.Post("/products/{id}/comments", cfg.CommentHandler.Create)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)
		r.Post("/comments/{id}/like", cfg.ReactionHandler.LikeComment)
		r.Delete("/comments/{id}/like", cfg.ReactionHandler.UnlikeComment)

		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)

		r.Post("/media/products", cfg.MediaHandler.UploadProductImage)
	})

	return r
}
