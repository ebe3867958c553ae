package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"showhub/internal/model"
)

func newCommentService(commentRepo *mockCommentRepository, productRepo *mockProductRepository, reactionRepo *mockReactionRepository, hideReplyToViewer bool) *CommentService {
	if commentRepo == nil {
		commentRepo = &mockCommentRepository{}
	}
	if productRepo == nil {
		productRepo = &mockProductRepository{}
	}
	if reactionRepo == nil {
		reactionRepo = &mockReactionRepository{}
	}
	return NewCommentService(commentRepo, productRepo, reactionRepo, &mockUserRepository{}, hideReplyToViewer)
}

func int64Ptr(v int64) *int64 { return &v }

// =============================================================================
// POST
// =============================================================================

func TestCommentService_Post_ContentValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty", content: "", wantErr: model.ErrContentRequired},
		{name: "whitespace only", content: "   \n\t ", wantErr: model.ErrContentRequired},
		{name: "too long", content: strings.Repeat("x", model.MaxCommentLength+1), wantErr: model.ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCommentService(nil, nil, nil, false)

			_, err := svc.Post(context.Background(), 1, 2, model.CreateCommentRequest{Content: tt.content})

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommentService_Post_ProductMissing(t *testing.T) {
	productRepo := &mockProductRepository{
		existsFn: func(ctx context.Context, productID int64) (bool, error) {
			return false, nil
		},
	}
	svc := newCommentService(nil, productRepo, nil, false)

	_, err := svc.Post(context.Background(), 1, 2, model.CreateCommentRequest{Content: "nice"})

	if !errors.Is(err, model.ErrProductNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrProductNotFound)
	}
}

func TestCommentService_Post_ParentMissing(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return nil, model.ErrCommentNotFound
		},
	}
	svc := newCommentService(commentRepo, nil, nil, false)

	_, err := svc.Post(context.Background(), 1, 2, model.CreateCommentRequest{
		Content:  "reply",
		ParentID: int64Ptr(999),
	})

	if !errors.Is(err, model.ErrParentCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrParentCommentNotFound)
	}
	if len(commentRepo.createCalls) != 0 {
		t.Error("Create should not be called for a dangling parent")
	}
}

func TestCommentService_Post_ParentOnOtherProduct(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, ProductID: 42}, nil
		},
	}
	svc := newCommentService(commentRepo, nil, nil, false)

	_, err := svc.Post(context.Background(), 1, 2, model.CreateCommentRequest{
		Content:  "reply",
		ParentID: int64Ptr(10),
	})

	if !errors.Is(err, model.ErrParentCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrParentCommentNotFound)
	}
}

func TestCommentService_Post_RootResolution(t *testing.T) {
	tests := []struct {
		name     string
		parent   *model.Comment
		wantRoot int64
	}{
		{
			name:     "reply to a top-level comment uses the parent as root",
			parent:   &model.Comment{ID: 10, ProductID: 1},
			wantRoot: 10,
		},
		{
			name:     "reply to a reply inherits the parent's root",
			parent:   &model.Comment{ID: 20, ProductID: 1, ParentID: int64Ptr(10), RootID: int64Ptr(10)},
			wantRoot: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commentRepo := &mockCommentRepository{
				getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
					return tt.parent, nil
				},
			}
			svc := newCommentService(commentRepo, nil, nil, false)

			comment, err := svc.Post(context.Background(), 1, 2, model.CreateCommentRequest{
				Content:  "reply",
				ParentID: &tt.parent.ID,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if comment.RootID == nil || *comment.RootID != tt.wantRoot {
				t.Errorf("root = %v, want %d", comment.RootID, tt.wantRoot)
			}
			if comment.ParentID == nil || *comment.ParentID != tt.parent.ID {
				t.Errorf("parent = %v, want %d", comment.ParentID, tt.parent.ID)
			}
		})
	}
}

func TestCommentService_Post_TopLevelHasNoLinkage(t *testing.T) {
	commentRepo := &mockCommentRepository{}
	svc := newCommentService(commentRepo, nil, nil, false)

	comment, err := svc.Post(context.Background(), 1, 2, model.CreateCommentRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if comment.ParentID != nil || comment.RootID != nil {
		t.Errorf("top-level comment linkage = parent:%v root:%v, want nil/nil", comment.ParentID, comment.RootID)
	}
}

// =============================================================================
// DELETE
// =============================================================================

func TestCommentService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		getByIDFn func(ctx context.Context, commentID int64) (*model.Comment, error)
		userID    int64
		wantErr   error
	}{
		{
			name: "owner deletes",
			getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return &model.Comment{ID: commentID, UserID: 2, ProductID: 1}, nil
			},
			userID:  2,
			wantErr: nil,
		},
		{
			name: "not the owner",
			getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return &model.Comment{ID: commentID, UserID: 2, ProductID: 1}, nil
			},
			userID:  3,
			wantErr: model.ErrNotCommentOwner,
		},
		{
			name: "comment missing",
			getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
				return nil, model.ErrCommentNotFound
			},
			userID:  2,
			wantErr: model.ErrCommentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commentRepo := &mockCommentRepository{getByIDFn: tt.getByIDFn}
			svc := newCommentService(commentRepo, nil, nil, false)

			err := svc.Delete(context.Background(), 5, tt.userID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(commentRepo.deleteCalls) != 0 {
					t.Error("Delete should not reach the repository on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(commentRepo.deleteCalls) != 1 {
				t.Errorf("Delete called %d times, want 1", len(commentRepo.deleteCalls))
			}
		})
	}
}

// =============================================================================
// THREAD ASSEMBLY
// =============================================================================

func threadFixture() ([]model.Comment, []model.Comment) {
	alice := &model.UserSummary{ID: 1, Username: "alice"}
	bob := &model.UserSummary{ID: 2, Username: "bob"}
	carol := &model.UserSummary{ID: 3, Username: "carol"}

	roots := []model.Comment{
		{ID: 30, UserID: 3, Author: carol}, // newest root first
		{ID: 10, UserID: 1, Author: alice},
	}
	descendants := []model.Comment{
		// thread 10: bob replies to the root, carol replies to bob
		{ID: 11, UserID: 2, Author: bob, ParentID: int64Ptr(10), RootID: int64Ptr(10)},
		{ID: 12, UserID: 3, Author: carol, ParentID: int64Ptr(11), RootID: int64Ptr(10)},
	}
	return roots, descendants
}

func TestAssembleThread_GroupsAndOrders(t *testing.T) {
	roots, descendants := threadFixture()

	thread := assembleThread(roots, descendants, nil, nil, false)

	if len(thread) != 2 {
		t.Fatalf("roots = %d, want 2", len(thread))
	}
	if thread[0].ID != 30 || thread[1].ID != 10 {
		t.Errorf("root order = [%d %d], want [30 10]", thread[0].ID, thread[1].ID)
	}
	if len(thread[0].Replies) != 0 {
		t.Errorf("thread 30 replies = %d, want 0", len(thread[0].Replies))
	}
	if len(thread[1].Replies) != 2 {
		t.Fatalf("thread 10 replies = %d, want 2", len(thread[1].Replies))
	}
	if thread[1].Replies[0].ID != 11 || thread[1].Replies[1].ID != 12 {
		t.Errorf("reply order = [%d %d], want [11 12]", thread[1].Replies[0].ID, thread[1].Replies[1].ID)
	}
}

func TestAssembleThread_ReplyToUser(t *testing.T) {
	roots, descendants := threadFixture()

	thread := assembleThread(roots, descendants, nil, nil, false)
	replies := thread[1].Replies

	// Reply directly under the root carries no reply_to_user.
	if replies[0].ReplyToUser != nil {
		t.Errorf("direct reply reply_to = %v, want nil", replies[0].ReplyToUser)
	}

	// Reply to a reply names the parent's author.
	if replies[1].ReplyToUser == nil || replies[1].ReplyToUser.Username != "bob" {
		t.Errorf("nested reply reply_to = %v, want bob", replies[1].ReplyToUser)
	}
}

func TestAssembleThread_HidesReplyToViewer(t *testing.T) {
	roots, descendants := threadFixture()

	// Comment 12 replies to bob (user 2). With the policy on and bob
	// viewing, the annotation is suppressed.
	viewer := int64(2)
	thread := assembleThread(roots, descendants, nil, &viewer, true)

	if got := thread[1].Replies[1].ReplyToUser; got != nil {
		t.Errorf("reply_to for viewer's own comment = %v, want nil", got)
	}

	// Other viewers still see it.
	other := int64(7)
	thread = assembleThread(roots, descendants, nil, &other, true)
	if got := thread[1].Replies[1].ReplyToUser; got == nil || got.Username != "bob" {
		t.Errorf("reply_to for other viewer = %v, want bob", got)
	}
}

func TestAssembleThread_LikedAnnotations(t *testing.T) {
	roots, descendants := threadFixture()
	liked := map[int64]bool{10: true, 12: true}
	viewer := int64(1)

	thread := assembleThread(roots, descendants, liked, &viewer, false)

	if !thread[1].HasLiked {
		t.Error("root 10 should be marked liked")
	}
	if thread[0].HasLiked {
		t.Error("root 30 should not be marked liked")
	}
	if thread[1].Replies[0].HasLiked {
		t.Error("reply 11 should not be marked liked")
	}
	if !thread[1].Replies[1].HasLiked {
		t.Error("reply 12 should be marked liked")
	}
}

func TestCommentService_ListThread_ProductMissing(t *testing.T) {
	productRepo := &mockProductRepository{
		existsFn: func(ctx context.Context, productID int64) (bool, error) {
			return false, nil
		},
	}
	svc := newCommentService(nil, productRepo, nil, false)

	_, err := svc.ListThread(context.Background(), 1, nil)

	if !errors.Is(err, model.ErrProductNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrProductNotFound)
	}
}
