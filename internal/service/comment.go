package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"showhub/internal/model"
	"showhub/internal/repository"
)

// CommentService manages product comment threads. Threads are flattened
// to two tiers: a root comment and a chronological list of all its
// descendants, however deep the reply chain went.
type CommentService struct {
	commentRepo  repository.CommentRepository
	productRepo  repository.ProductRepository
	reactionRepo repository.ReactionRepository
	userRepo     repository.UserRepository

	// hideReplyToViewer drops the reply_to_user annotation when the
	// replied-to comment belongs to the viewer.
	hideReplyToViewer bool
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
	reactionRepo repository.ReactionRepository,
	userRepo repository.UserRepository,
	hideReplyToViewer bool,
) *CommentService {
	return &CommentService{
		commentRepo:       commentRepo,
		productRepo:       productRepo,
		reactionRepo:      reactionRepo,
		userRepo:          userRepo,
		hideReplyToViewer: hideReplyToViewer,
	}
}

// Post creates a comment on a product. For replies the root linkage is
// resolved here: a reply inherits its parent's root, or uses the parent
// itself when the parent is top-level. A missing parent is rejected
// explicitly rather than stored with a dangling linkage.
func (s *CommentService) Post(ctx context.Context, productID, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return nil, model.ErrProductNotFound
	}

	comment := &model.Comment{
		ProductID: productID,
		UserID:    userID,
		Content:   content,
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if err == model.ErrCommentNotFound {
				return nil, model.ErrParentCommentNotFound
			}
			return nil, err
		}
		if parent.ProductID != productID {
			return nil, model.ErrParentCommentNotFound
		}

		rootID := parent.ID
		if parent.RootID != nil {
			rootID = *parent.RootID
		}
		comment.ParentID = req.ParentID
		comment.RootID = &rootID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Fetch author info
	author, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		comment.Author = &model.UserSummary{
			ID:        author.ID,
			Username:  author.Username,
			AvatarURL: author.AvatarURL,
		}
	}

	log.Printf("[CommentService] User %d commented on product %d (comment %d)", userID, productID, comment.ID)
	return comment, nil
}

// Delete removes a comment. Only the author may delete. Deleting a root
// takes the whole thread with it (schema cascade on root_id); deleting a
// reply removes just that reply.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return model.ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	log.Printf("[CommentService] User %d deleted comment %d from product %d", userID, commentID, comment.ProductID)
	return nil
}

// ListThread returns the product's comment threads: roots newest first,
// each carrying its descendants oldest first, annotated with the
// viewer's like state.
func (s *CommentService) ListThread(ctx context.Context, productID int64, viewerID *int64) ([]model.ThreadComment, error) {
	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return nil, model.ErrProductNotFound
	}

	roots, err := s.commentRepo.ListRoots(ctx, productID)
	if err != nil {
		return nil, err
	}

	rootIDs := make([]int64, len(roots))
	for i, root := range roots {
		rootIDs[i] = root.ID
	}

	descendants, err := s.commentRepo.ListDescendants(ctx, rootIDs)
	if err != nil {
		return nil, err
	}

	liked := map[int64]bool{}
	if viewerID != nil {
		allIDs := make([]int64, 0, len(roots)+len(descendants))
		for _, c := range roots {
			allIDs = append(allIDs, c.ID)
		}
		for _, c := range descendants {
			allIDs = append(allIDs, c.ID)
		}
		liked, err = s.reactionRepo.CommentLikedSet(ctx, *viewerID, allIDs)
		if err != nil {
			return nil, err
		}
	}

	return assembleThread(roots, descendants, liked, viewerID, s.hideReplyToViewer), nil
}

// assembleThread builds the two-tier display view from the flat rows.
//
// reply_to_user names the parent's author, but only where it adds
// information: it is omitted when the parent is the root itself (the
// reply is visually nested under it already), when the parent was
// deleted, and optionally when the parent's author is the viewer.
func assembleThread(roots, descendants []model.Comment, liked map[int64]bool, viewerID *int64, hideReplyToViewer bool) []model.ThreadComment {
	authors := make(map[int64]*model.Comment, len(roots)+len(descendants))
	for i := range roots {
		authors[roots[i].ID] = &roots[i]
	}
	for i := range descendants {
		authors[descendants[i].ID] = &descendants[i]
	}

	byRoot := make(map[int64][]model.ThreadComment)
	for _, d := range descendants {
		if d.RootID == nil {
			continue
		}
		item := model.ThreadComment{
			Comment:  d,
			HasLiked: liked[d.ID],
		}
		if d.ParentID != nil && *d.ParentID != *d.RootID {
			if parent, ok := authors[*d.ParentID]; ok {
				suppress := hideReplyToViewer && viewerID != nil && parent.UserID == *viewerID
				if !suppress {
					item.ReplyToUser = parent.Author
				}
			}
		}
		byRoot[*d.RootID] = append(byRoot[*d.RootID], item)
	}

	thread := make([]model.ThreadComment, len(roots))
	for i, root := range roots {
		thread[i] = model.ThreadComment{
			Comment:  root,
			HasLiked: liked[root.ID],
			Replies:  byRoot[root.ID],
		}
	}
	return thread
}
