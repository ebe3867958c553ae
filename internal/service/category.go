package service

import (
	"context"
	"log"

	"showhub/internal/cache"
	"showhub/internal/model"
	"showhub/internal/repository"
)

// CategoryService serves the category list through a cache-aside Redis
// layer. Categories are seeded data, so a short TTL is all the
// invalidation needed.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        cache.CategoryCache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, c cache.CategoryCache) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, cache: c}
}

// List returns all categories ordered for display.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	if s.cache != nil {
		categories, hit, err := s.cache.Get(ctx)
		if err != nil {
			log.Printf("[CategoryService] Cache get FAILED: %v", err)
		} else if hit {
			return categories, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			log.Printf("[CategoryService] Cache set FAILED: %v", err)
		}
	}
	return categories, nil
}
