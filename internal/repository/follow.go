package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"showhub/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("create follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFollowing
	}
	return nil
}

// GetFollowers retrieves users who follow the given user, newest edge
// first, paginated by the edge timestamp. Fetches limit+1 to detect a
// next page.
func (r *followRepository) GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	return r.followList(ctx, `
		SELECT u.id, u.username, u.avatar_url, u.title, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1`, userID, cursor, limit)
}

// GetFollowing retrieves users the given user follows. See GetFollowers
// for the pagination approach.
func (r *followRepository) GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	return r.followList(ctx, `
		SELECT u.id, u.username, u.avatar_url, u.title, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1`, userID, cursor, limit)
}

func (r *followRepository) followList(ctx context.Context, baseQuery string, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = baseQuery + ` ORDER BY f.created_at DESC LIMIT $2`
		args = []interface{}{userID, limit + 1}
	} else {
		query = baseQuery + ` AND f.created_at < $2 ORDER BY f.created_at DESC LIMIT $3`
		args = []interface{}{userID, cursor, limit + 1}
	}

	type userWithTime struct {
		model.UserSummary
		CreatedAt time.Time `db:"created_at"`
	}

	var results []userWithTime
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, nil, fmt.Errorf("list follow edges: %w", err)
	}

	var nextCursor *time.Time
	if len(results) > limit {
		results = results[:limit]
		nextCursor = &results[len(results)-1].CreatedAt
	}

	users := make([]model.UserSummary, len(results))
	for i, result := range results {
		users[i] = result.UserSummary
	}
	return users, nextCursor, nil
}
