package service

import (
	"context"
	"log"

	"showhub/internal/model"
	"showhub/internal/repository"
)

// ReactionService toggles likes, favorites and comment likes. Toggles are
// not idempotent: a duplicate attempt surfaces as a conflict and the
// client reconciles by refetching. The join-row/counter atomicity lives
// in the repository; this layer adds the entitlement rules.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	productRepo  repository.ProductRepository
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	productRepo repository.ProductRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		productRepo:  productRepo,
	}
}

// LikeProduct adds a like. Rejects the product's own author.
func (s *ReactionService) LikeProduct(ctx context.Context, userID, productID int64) (*model.ToggleResponse, error) {
	ownerID, err := s.productRepo.GetOwnerID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if ownerID == userID {
		return nil, model.ErrOwnProduct
	}

	newCount, err := s.reactionRepo.AddLike(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ReactionService] User %d liked product %d", userID, productID)
	return &model.ToggleResponse{Success: true, NewCount: newCount, NewState: true}, nil
}

// UnlikeProduct removes a like.
func (s *ReactionService) UnlikeProduct(ctx context.Context, userID, productID int64) (*model.ToggleResponse, error) {
	newCount, err := s.reactionRepo.RemoveLike(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ReactionService] User %d unliked product %d", userID, productID)
	return &model.ToggleResponse{Success: true, NewCount: newCount, NewState: false}, nil
}

// FavoriteProduct adds a favorite. Rejects the product's own author.
func (s *ReactionService) FavoriteProduct(ctx context.Context, userID, productID int64) (*model.ToggleResponse, error) {
	ownerID, err := s.productRepo.GetOwnerID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if ownerID == userID {
		return nil, model.ErrOwnProduct
	}

	newCount, err := s.reactionRepo.AddFavorite(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ReactionService] User %d favorited product %d", userID, productID)
	return &model.ToggleResponse{Success: true, NewCount: newCount, NewState: true}, nil
}

// UnfavoriteProduct removes a favorite.
func (s *ReactionService) UnfavoriteProduct(ctx context.Context, userID, productID int64) (*model.ToggleResponse, error) {
	newCount, err := s.reactionRepo.RemoveFavorite(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ReactionService] User %d unfavorited product %d", userID, productID)
	return &model.ToggleResponse{Success: true, NewCount: newCount, NewState: false}, nil
}

// LikeComment adds a comment like. There is no self-reaction rule for
// comments, unlike products.
func (s *ReactionService) LikeComment(ctx context.Context, userID, commentID int64) (*model.ToggleResponse, error) {
	newCount, err := s.reactionRepo.AddCommentLike(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ReactionService] User %d liked comment %d", userID, commentID)
	return &model.ToggleResponse{Success: true, NewCount: newCount, NewState: true}, nil
}

// UnlikeComment removes a comment like.
func (s *ReactionService) UnlikeComment(ctx context.Context, userID, commentID int64) (*model.ToggleResponse, error) {
	newCount, err := s.reactionRepo.RemoveCommentLike(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ReactionService] User %d unliked comment %d", userID, commentID)
	return &model.ToggleResponse{Success: true, NewCount: newCount, NewState: false}, nil
}

// LikeStatus is the read path: like count plus whether the viewer has
// liked. HasReacted is always false for anonymous viewers.
func (s *ReactionService) LikeStatus(ctx context.Context, viewerID *int64, productID int64) (*model.ReactionStatus, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	status := &model.ReactionStatus{Count: product.Likes}
	if viewerID != nil {
		liked, err := s.reactionRepo.LikedSet(ctx, *viewerID, []int64{productID})
		if err != nil {
			return nil, err
		}
		status.HasReacted = liked[productID]
	}
	return status, nil
}
