package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"showhub/internal/cache"
	"showhub/internal/config"
	"showhub/internal/database"
	"showhub/internal/handler"
	"showhub/internal/queue"
	appredis "showhub/internal/redis"
	"showhub/internal/repository"
	"showhub/internal/service"
	"showhub/internal/worker"
)

// Run wires the full application and serves until interrupted.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	// Queue and cache
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)
	categoryCache := cache.NewCategoryCache(redisClient.Client)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	productService := service.NewProductService(productRepo, categoryRepo, reactionRepo, publisher)
	commentService := service.NewCommentService(commentRepo, productRepo, reactionRepo, userRepo, cfg.HideReplyToViewer)
	reactionService := service.NewReactionService(reactionRepo, productRepo)
	categoryService := service.NewCategoryService(categoryRepo, categoryCache)
	followService := service.NewFollowService(followRepo, userRepo)

	// Background image cleanup
	cleanupManager := worker.NewManager(consumer, mediaService, worker.ManagerConfig{})
	if err := cleanupManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cleanup worker: %w", err)
	}
	defer cleanupManager.Stop()

	router := NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(authService),
		ProductHandler:  handler.NewProductHandler(productService),
		CommentHandler:  handler.NewCommentHandler(commentService),
		ReactionHandler: handler.NewReactionHandler(reactionService),
		CategoryHandler: handler.NewCategoryHandler(categoryService),
		FollowHandler:   handler.NewFollowHandler(followService),
		MediaHandler:    handler.NewMediaHandler(mediaService),
		JWTSecret:       cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received signal %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
