package service

import (
	"context"
	"time"

	"showhub/internal/model"
	"showhub/internal/queue"
	"showhub/internal/repository"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository INTERFACES, so unit tests swap in mocks with
// per-test behavior defined through function fields.

type mockProductRepository struct {
	createFn         func(ctx context.Context, p *model.Product, categoryIDs []int64) error
	updateFn         func(ctx context.Context, p *model.Product, categoryIDs []int64) error
	deleteFn         func(ctx context.Context, productID int64) error
	getByIDFn        func(ctx context.Context, productID int64) (*model.Product, error)
	getOwnerIDFn     func(ctx context.Context, productID int64) (int64, error)
	existsFn         func(ctx context.Context, productID int64) (bool, error)
	feedPageFn       func(ctx context.Context, f repository.FeedFilter, cursor *string, limit int) ([]model.Product, *string, error)
	feedCandidatesFn func(ctx context.Context, f repository.FeedFilter, search string) ([]model.Product, error)
}

func (m *mockProductRepository) Create(ctx context.Context, p *model.Product, categoryIDs []int64) error {
	if m.createFn != nil {
		return m.createFn(ctx, p, categoryIDs)
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, p *model.Product, categoryIDs []int64) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p, categoryIDs)
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, productID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, productID)
	}
	return nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, productID int64) (*model.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, productID)
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) GetOwnerID(ctx context.Context, productID int64) (int64, error) {
	if m.getOwnerIDFn != nil {
		return m.getOwnerIDFn(ctx, productID)
	}
	return 0, model.ErrProductNotFound
}

func (m *mockProductRepository) Exists(ctx context.Context, productID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, productID)
	}
	return true, nil
}

func (m *mockProductRepository) FeedPage(ctx context.Context, f repository.FeedFilter, cursor *string, limit int) ([]model.Product, *string, error) {
	if m.feedPageFn != nil {
		return m.feedPageFn(ctx, f, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockProductRepository) FeedCandidates(ctx context.Context, f repository.FeedFilter, search string) ([]model.Product, error) {
	if m.feedCandidatesFn != nil {
		return m.feedCandidatesFn(ctx, f, search)
	}
	return nil, nil
}

type mockCategoryRepository struct {
	listFn                 func(ctx context.Context) ([]model.Category, error)
	countSelectableByIDsFn func(ctx context.Context, ids []int64) (int, error)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepository) CountSelectableByIDs(ctx context.Context, ids []int64) (int, error) {
	if m.countSelectableByIDsFn != nil {
		return m.countSelectableByIDsFn(ctx, ids)
	}
	return len(ids), nil
}

type mockReactionRepository struct {
	addLikeFn           func(ctx context.Context, userID, productID int64) (int, error)
	removeLikeFn        func(ctx context.Context, userID, productID int64) (int, error)
	addFavoriteFn       func(ctx context.Context, userID, productID int64) (int, error)
	removeFavoriteFn    func(ctx context.Context, userID, productID int64) (int, error)
	addCommentLikeFn    func(ctx context.Context, userID, commentID int64) (int, error)
	removeCommentLikeFn func(ctx context.Context, userID, commentID int64) (int, error)
	likedSetFn          func(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error)
	favoritedSetFn      func(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error)
	commentLikedSetFn   func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
}

func (m *mockReactionRepository) AddLike(ctx context.Context, userID, productID int64) (int, error) {
	if m.addLikeFn != nil {
		return m.addLikeFn(ctx, userID, productID)
	}
	return 1, nil
}

func (m *mockReactionRepository) RemoveLike(ctx context.Context, userID, productID int64) (int, error) {
	if m.removeLikeFn != nil {
		return m.removeLikeFn(ctx, userID, productID)
	}
	return 0, nil
}

func (m *mockReactionRepository) AddFavorite(ctx context.Context, userID, productID int64) (int, error) {
	if m.addFavoriteFn != nil {
		return m.addFavoriteFn(ctx, userID, productID)
	}
	return 1, nil
}

func (m *mockReactionRepository) RemoveFavorite(ctx context.Context, userID, productID int64) (int, error) {
	if m.removeFavoriteFn != nil {
		return m.removeFavoriteFn(ctx, userID, productID)
	}
	return 0, nil
}

func (m *mockReactionRepository) AddCommentLike(ctx context.Context, userID, commentID int64) (int, error) {
	if m.addCommentLikeFn != nil {
		return m.addCommentLikeFn(ctx, userID, commentID)
	}
	return 1, nil
}

func (m *mockReactionRepository) RemoveCommentLike(ctx context.Context, userID, commentID int64) (int, error) {
	if m.removeCommentLikeFn != nil {
		return m.removeCommentLikeFn(ctx, userID, commentID)
	}
	return 0, nil
}

func (m *mockReactionRepository) LikedSet(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	if m.likedSetFn != nil {
		return m.likedSetFn(ctx, userID, productIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockReactionRepository) FavoritedSet(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	if m.favoritedSetFn != nil {
		return m.favoritedSetFn(ctx, userID, productIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockReactionRepository) CommentLikedSet(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	if m.commentLikedSetFn != nil {
		return m.commentLikedSetFn(ctx, userID, commentIDs)
	}
	return map[int64]bool{}, nil
}

type mockCommentRepository struct {
	createFn          func(ctx context.Context, c *model.Comment) error
	getByIDFn         func(ctx context.Context, commentID int64) (*model.Comment, error)
	deleteFn          func(ctx context.Context, commentID int64) error
	listRootsFn       func(ctx context.Context, productID int64) ([]model.Comment, error)
	listDescendantsFn func(ctx context.Context, rootIDs []int64) ([]model.Comment, error)

	createCalls []*model.Comment
	deleteCalls []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	m.createCalls = append(m.createCalls, c)
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID int64) error {
	m.deleteCalls = append(m.deleteCalls, commentID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return nil
}

func (m *mockCommentRepository) ListRoots(ctx context.Context, productID int64) ([]model.Comment, error) {
	if m.listRootsFn != nil {
		return m.listRootsFn(ctx, productID)
	}
	return nil, nil
}

func (m *mockCommentRepository) ListDescendants(ctx context.Context, rootIDs []int64) ([]model.Comment, error) {
	if m.listDescendantsFn != nil {
		return m.listDescendantsFn(ctx, rootIDs)
	}
	return nil, nil
}

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.User{ID: id, Username: "someone"}, nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

type mockFollowRepository struct {
	createFn       func(ctx context.Context, followerID, followingID int64) (bool, error)
	deleteFn       func(ctx context.Context, followerID, followingID int64) error
	getFollowersFn func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	getFollowingFn func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followingID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followingID)
	}
	return nil
}

func (m *mockFollowRepository) GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	if m.getFollowersFn != nil {
		return m.getFollowersFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockFollowRepository) GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	if m.getFollowingFn != nil {
		return m.getFollowingFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

// mockPublisher records published cleanup events.
type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.CleanupEvent) (string, error)

	published []queue.CleanupEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.CleanupEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}
