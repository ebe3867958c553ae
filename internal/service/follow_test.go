package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"showhub/internal/model"
)

// =============================================================================
// FollowService
// =============================================================================

func TestFollowService_Follow_RejectsSelf(t *testing.T) {
	svc := NewFollowService(&mockFollowRepository{}, &mockUserRepository{})

	err := svc.Follow(context.Background(), 7, 7)

	if !errors.Is(err, model.ErrCannotFollowSelf) {
		t.Errorf("error = %v, want %v", err, model.ErrCannotFollowSelf)
	}
}

func TestFollowService_Follow_Duplicate(t *testing.T) {
	followRepo := &mockFollowRepository{
		createFn: func(ctx context.Context, followerID, followingID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepository{})

	err := svc.Follow(context.Background(), 1, 2)

	if !errors.Is(err, model.ErrAlreadyFollowing) {
		t.Errorf("error = %v, want %v", err, model.ErrAlreadyFollowing)
	}
}

func TestFollowService_Follow_TargetMissing(t *testing.T) {
	userRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, model.ErrUserNotFound
		},
	}
	followRepo := &mockFollowRepository{
		createFn: func(ctx context.Context, followerID, followingID int64) (bool, error) {
			t.Fatal("Create must not run when the target user does not exist")
			return false, nil
		},
	}
	svc := NewFollowService(followRepo, userRepo)

	err := svc.Follow(context.Background(), 1, 999)

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestFollowService_GetFollowers_CursorHandling(t *testing.T) {
	edge := time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC)
	var gotCursor *time.Time
	followRepo := &mockFollowRepository{
		getFollowersFn: func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
			gotCursor = cursor
			next := edge.Add(-time.Minute)
			return []model.UserSummary{{ID: 2, Username: "bob"}}, &next, nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepository{})

	formatted := edge.Format(time.RFC3339Nano)
	resp, err := svc.GetFollowers(context.Background(), 1, &formatted, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotCursor == nil || !gotCursor.Equal(edge) {
		t.Errorf("repo cursor = %v, want %v", gotCursor, edge)
	}
	if !resp.HasMore {
		t.Error("HasMore = false, want true")
	}
	if resp.NextCursor == nil {
		t.Fatal("NextCursor = nil, want the next edge timestamp")
	}
	if _, err := time.Parse(time.RFC3339Nano, *resp.NextCursor); err != nil {
		t.Errorf("NextCursor %q is not RFC3339Nano: %v", *resp.NextCursor, err)
	}
}

func TestFollowService_GetFollowers_InvalidCursor(t *testing.T) {
	svc := NewFollowService(&mockFollowRepository{}, &mockUserRepository{})

	bad := "123:456"
	_, err := svc.GetFollowers(context.Background(), 1, &bad, 10)

	if !errors.Is(err, model.ErrInvalidCursor) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidCursor)
	}
}

func TestFollowService_GetFollowers_LastPage(t *testing.T) {
	followRepo := &mockFollowRepository{
		getFollowersFn: func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
			return []model.UserSummary{{ID: 2}}, nil, nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepository{})

	resp, err := svc.GetFollowers(context.Background(), 1, nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.HasMore {
		t.Error("HasMore = true, want false on the last page")
	}
	if resp.NextCursor != nil {
		t.Errorf("NextCursor = %q, want nil", *resp.NextCursor)
	}
}
