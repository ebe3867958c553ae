package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"showhub/internal/model"
)

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// All toggles follow the same shape: mutate the join row and the owning
// entity's counter inside one transaction. The composite primary key on
// the join table is what rejects a concurrent same-user double-toggle;
// the counter is never computed by reading it back in application code.

func (r *reactionRepository) AddLike(ctx context.Context, userID, productID int64) (int, error) {
	return r.addProductReaction(ctx, userID, productID,
		`INSERT INTO likes (user_id, product_id) VALUES ($1, $2)`,
		`UPDATE products SET likes = likes + 1, updated_at = NOW() WHERE id = $1 RETURNING likes`,
		model.ErrAlreadyLiked)
}

func (r *reactionRepository) RemoveLike(ctx context.Context, userID, productID int64) (int, error) {
	return r.removeProductReaction(ctx, userID, productID,
		`DELETE FROM likes WHERE user_id = $1 AND product_id = $2`,
		`UPDATE products SET likes = likes - 1, updated_at = NOW() WHERE id = $1 RETURNING likes`,
		model.ErrNotLiked)
}

func (r *reactionRepository) AddFavorite(ctx context.Context, userID, productID int64) (int, error) {
	return r.addProductReaction(ctx, userID, productID,
		`INSERT INTO favorites (user_id, product_id) VALUES ($1, $2)`,
		`UPDATE products SET favorites = favorites + 1, updated_at = NOW() WHERE id = $1 RETURNING favorites`,
		model.ErrAlreadyFavorited)
}

func (r *reactionRepository) RemoveFavorite(ctx context.Context, userID, productID int64) (int, error) {
	return r.removeProductReaction(ctx, userID, productID,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		`UPDATE products SET favorites = favorites - 1, updated_at = NOW() WHERE id = $1 RETURNING favorites`,
		model.ErrNotFavorited)
}

func (r *reactionRepository) AddCommentLike(ctx context.Context, userID, commentID int64) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO comment_likes (user_id, comment_id) VALUES ($1, $2)`, userID, commentID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return 0, model.ErrAlreadyLiked
			case "23503":
				return 0, model.ErrCommentNotFound
			}
		}
		return 0, fmt.Errorf("insert comment like: %w", err)
	}

	var newCount int
	err = tx.GetContext(ctx, &newCount,
		`UPDATE comments SET likes = likes + 1 WHERE id = $1 RETURNING likes`, commentID)
	if err != nil {
		return 0, fmt.Errorf("increment comment likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return newCount, nil
}

func (r *reactionRepository) RemoveCommentLike(ctx context.Context, userID, commentID int64) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE user_id = $1 AND comment_id = $2`, userID, commentID)
	if err != nil {
		return 0, fmt.Errorf("delete comment like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, model.ErrNotLiked
	}

	var newCount int
	err = tx.GetContext(ctx, &newCount,
		`UPDATE comments SET likes = likes - 1 WHERE id = $1 RETURNING likes`, commentID)
	if err == sql.ErrNoRows {
		return 0, model.ErrCommentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("decrement comment likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return newCount, nil
}

func (r *reactionRepository) addProductReaction(ctx context.Context, userID, productID int64, insertQ, counterQ string, dupErr error) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertQ, userID, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return 0, dupErr
			case "23503":
				return 0, model.ErrProductNotFound
			}
		}
		return 0, fmt.Errorf("insert reaction: %w", err)
	}

	var newCount int
	err = tx.GetContext(ctx, &newCount, counterQ, productID)
	if err != nil {
		return 0, fmt.Errorf("update counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return newCount, nil
}

func (r *reactionRepository) removeProductReaction(ctx context.Context, userID, productID int64, deleteQ, counterQ string, missingErr error) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, deleteQ, userID, productID)
	if err != nil {
		return 0, fmt.Errorf("delete reaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, missingErr
	}

	var newCount int
	err = tx.GetContext(ctx, &newCount, counterQ, productID)
	if err == sql.ErrNoRows {
		return 0, model.ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("update counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return newCount, nil
}

// LikedSet returns which of the given products the user has liked.
func (r *reactionRepository) LikedSet(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	return r.membershipSet(ctx,
		`SELECT product_id FROM likes WHERE user_id = $1 AND product_id = ANY($2)`,
		userID, productIDs)
}

// FavoritedSet returns which of the given products the user has favorited.
func (r *reactionRepository) FavoritedSet(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	return r.membershipSet(ctx,
		`SELECT product_id FROM favorites WHERE user_id = $1 AND product_id = ANY($2)`,
		userID, productIDs)
}

// CommentLikedSet returns which of the given comments the user has liked.
func (r *reactionRepository) CommentLikedSet(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	return r.membershipSet(ctx,
		`SELECT comment_id FROM comment_likes WHERE user_id = $1 AND comment_id = ANY($2)`,
		userID, commentIDs)
}

func (r *reactionRepository) membershipSet(ctx context.Context, query string, userID int64, targetIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(targetIDs))
	for _, id := range targetIDs {
		result[id] = false
	}
	if len(targetIDs) == 0 {
		return result, nil
	}

	var matched []int64
	err := r.db.SelectContext(ctx, &matched, query, userID, pq.Array(targetIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	for _, id := range matched {
		result[id] = true
	}
	return result, nil
}
