package service

import (
	"context"
	"log"
	"time"

	"showhub/internal/model"
	"showhub/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return err
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyFollowing
	}

	log.Printf("[FollowService] User %d followed user %d", followerID, followingID)
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return model.ErrCannotFollowSelf
	}

	if err := s.followRepo.Delete(ctx, followerID, followingID); err != nil {
		return err
	}

	log.Printf("[FollowService] User %d unfollowed user %d", followerID, followingID)
	return nil
}

func (s *FollowService) GetFollowers(ctx context.Context, userID int64, cursor *string, limit int) (*model.FollowListResponse, error) {
	return s.list(ctx, userID, cursor, limit, s.followRepo.GetFollowers)
}

func (s *FollowService) GetFollowing(ctx context.Context, userID int64, cursor *string, limit int) (*model.FollowListResponse, error) {
	return s.list(ctx, userID, cursor, limit, s.followRepo.GetFollowing)
}

func (s *FollowService) list(
	ctx context.Context,
	userID int64,
	cursor *string,
	limit int,
	fetch func(context.Context, int64, *time.Time, int) ([]model.UserSummary, *time.Time, error),
) (*model.FollowListResponse, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	var cursorTime *time.Time
	if cursor != nil && *cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, *cursor)
		if err != nil {
			return nil, model.ErrInvalidCursor
		}
		cursorTime = &t
	}

	users, next, err := fetch(ctx, userID, cursorTime, limit)
	if err != nil {
		return nil, err
	}

	resp := &model.FollowListResponse{Users: users, HasMore: next != nil}
	if next != nil {
		formatted := next.Format(time.RFC3339Nano)
		resp.NextCursor = &formatted
	}
	return resp, nil
}
