package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"showhub/internal/model"
	"showhub/internal/queue"
	"showhub/internal/repository"
)

// Search ranking weights. A product's score is the sum of the weights of
// every field the term matches; higher scores rank first.
const (
	searchWeightName     = 100
	searchWeightDesc     = 50
	searchWeightCategory = 30
	searchWeightAuthor   = 10
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// ProductService manages products and the product feed.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reactionRepo repository.ReactionRepository
	publisher    queue.Publisher
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	reactionRepo repository.ReactionRepository,
	publisher queue.Publisher,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reactionRepo: reactionRepo,
		publisher:    publisher,
	}
}

// GetFeed resolves the feed query into a filter, fetches one page and
// annotates it with the viewer's reaction state.
//
// Two modes exist. Relationship mode (Type set) returns the subject
// user's created, liked or favorited products. Public mode filters by
// category slug, where "all" and "recommended" mean no filter and "new"
// is a recency window ordered newest first. A search term switches to
// in-memory weighted ranking and disables cursor pagination.
func (s *ProductService) GetFeed(ctx context.Context, q model.FeedQuery) (*model.FeedResponse, error) {
	if q.Limit <= 0 {
		q.Limit = defaultFeedLimit
	}
	if q.Limit > maxFeedLimit {
		q.Limit = maxFeedLimit
	}

	search := strings.TrimSpace(q.Search)
	if search != "" && q.Cursor != nil {
		return nil, model.ErrSearchWithCursor
	}

	filter := repository.FeedFilter{}

	if q.Type != "" {
		if q.Type != model.FeedTypeCreated && q.Type != model.FeedTypeLiked && q.Type != model.FeedTypeFavorited {
			return nil, model.ErrMissingFeedSubject
		}
		subjectID := q.TargetUserID
		if subjectID == nil {
			subjectID = q.ViewerID
		}
		if subjectID == nil {
			return nil, model.ErrMissingFeedSubject
		}
		filter.SubjectID = subjectID
		filter.Type = q.Type

		// A user's own listing reads newest first; liked/favorited keep
		// the popularity order.
		if q.Type == model.FeedTypeCreated {
			filter.OrderByCreated = true
		}

		// Drafts are visible only to their owner, and only in the
		// created listing.
		if q.Status != "" && q.Type == model.FeedTypeCreated &&
			q.ViewerID != nil && *q.ViewerID == *subjectID {
			if q.Status != model.StatusDraft && q.Status != model.StatusPublished {
				return nil, model.ErrInvalidStatus
			}
			filter.Status = q.Status
		}
	} else {
		switch q.Category {
		case "", "all", "recommended":
			// no category filter
		case "new":
			since := time.Now().AddDate(0, 0, -model.NewWindowDays)
			filter.CreatedSince = &since
			filter.OrderByCreated = true
		default:
			filter.CategorySlug = q.Category
		}
	}

	var (
		items      []model.Product
		nextCursor *string
		err        error
	)
	if search != "" {
		items, err = s.searchFeed(ctx, filter, search, q.Limit)
	} else {
		items, nextCursor, err = s.productRepo.FeedPage(ctx, filter, q.Cursor, q.Limit)
	}
	if err != nil {
		return nil, err
	}

	if err := s.annotate(ctx, items, q.ViewerID); err != nil {
		return nil, err
	}

	return &model.FeedResponse{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

// searchFeed loads the full candidate set, ranks it in memory and
// truncates to the page size.
func (s *ProductService) searchFeed(ctx context.Context, f repository.FeedFilter, term string, limit int) ([]model.Product, error) {
	candidates, err := s.productRepo.FeedCandidates(ctx, f, term)
	if err != nil {
		return nil, err
	}

	ranked := rankBySearch(candidates, term)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// rankBySearch orders products by descending match score. The sort is
// stable so equally scored products keep the repository's ordering.
func rankBySearch(products []model.Product, term string) []model.Product {
	term = strings.ToLower(term)
	scores := make(map[int64]int, len(products))
	for i := range products {
		scores[products[i].ID] = searchScore(&products[i], term)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return scores[products[i].ID] > scores[products[j].ID]
	})
	return products
}

func searchScore(p *model.Product, term string) int {
	score := 0
	if strings.Contains(strings.ToLower(p.Name), term) {
		score += searchWeightName
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		score += searchWeightDesc
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c.Name), term) {
			score += searchWeightCategory
			break
		}
	}
	if p.Author != nil && strings.Contains(strings.ToLower(p.Author.Username), term) {
		score += searchWeightAuthor
	}
	return score
}

// annotate fills HasLiked and HasFavorited for the viewer using two
// batch membership queries.
func (s *ProductService) annotate(ctx context.Context, products []model.Product, viewerID *int64) error {
	if viewerID == nil || len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	liked, err := s.reactionRepo.LikedSet(ctx, *viewerID, ids)
	if err != nil {
		return fmt.Errorf("load liked set: %w", err)
	}
	favorited, err := s.reactionRepo.FavoritedSet(ctx, *viewerID, ids)
	if err != nil {
		return fmt.Errorf("load favorited set: %w", err)
	}

	for i := range products {
		products[i].HasLiked = liked[products[i].ID]
		products[i].HasFavorited = favorited[products[i].ID]
	}
	return nil
}

// GetByID returns one product with categories and author, annotated with
// the viewer's reaction state. Drafts are visible only to their owner.
func (s *ProductService) GetByID(ctx context.Context, productID int64, viewerID *int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Status == model.StatusDraft {
		if viewerID == nil || *viewerID != product.UserID {
			return nil, model.ErrProductNotFound
		}
	}

	items := []model.Product{*product}
	if err := s.annotate(ctx, items, viewerID); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Create validates and creates a product for the user.
func (s *ProductService) Create(ctx context.Context, userID int64, req model.CreateProductRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, model.ErrMissingFields
	}

	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}
	if status != model.StatusDraft && status != model.StatusPublished {
		return nil, model.ErrInvalidStatus
	}

	categoryIDs, err := s.validateCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		UserID:      userID,
		Name:        name,
		Description: description,
		Detail:      req.Detail,
		WebsiteURL:  strings.TrimSpace(req.WebsiteURL),
		Images:      req.Images,
		Status:      status,
	}
	if len(req.Images) > 0 {
		product.ImageURL = &req.Images[0]
	}

	if err := s.productRepo.Create(ctx, product, categoryIDs); err != nil {
		return nil, err
	}

	log.Printf("[ProductService] User %d created product %d (%s)", userID, product.ID, product.Status)
	return s.productRepo.GetByID(ctx, product.ID)
}

// Update validates and updates an owned product. Images removed from the
// gallery are scheduled for asynchronous storage cleanup; the update
// itself never waits on storage.
func (s *ProductService) Update(ctx context.Context, productID, userID int64, req model.UpdateProductRequest) (*model.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, model.ErrNotProductOwner
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, model.ErrMissingFields
	}

	status := req.Status
	if status == "" {
		status = existing.Status
	}
	if status != model.StatusDraft && status != model.StatusPublished {
		return nil, model.ErrInvalidStatus
	}

	categoryIDs := req.CategoryIDs
	if categoryIDs != nil {
		categoryIDs, err = s.validateCategories(ctx, categoryIDs)
		if err != nil {
			return nil, err
		}
	}

	images := existing.Images
	if req.Images != nil {
		images = req.Images
	}

	product := &model.Product{
		ID:          productID,
		UserID:      userID,
		Name:        name,
		Description: description,
		Detail:      req.Detail,
		WebsiteURL:  strings.TrimSpace(req.WebsiteURL),
		Images:      images,
		Status:      status,
	}
	if len(images) > 0 {
		product.ImageURL = &images[0]
	} else {
		product.ImageURL = nil
	}

	if err := s.productRepo.Update(ctx, product, categoryIDs); err != nil {
		return nil, err
	}

	if req.Images != nil {
		s.scheduleImageCleanup(productID, diffRemovedImages(existing.Images, req.Images))
	}

	log.Printf("[ProductService] User %d updated product %d", userID, productID)
	return s.productRepo.GetByID(ctx, productID)
}

// Delete removes an owned product and schedules cleanup of its images.
func (s *ProductService) Delete(ctx context.Context, productID, userID int64) error {
	existing, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return model.ErrNotProductOwner
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.scheduleImageCleanup(productID, existing.Images)

	log.Printf("[ProductService] User %d deleted product %d", userID, productID)
	return nil
}

// validateCategories checks the category set and returns it deduplicated,
// so a repeated ID neither fails the existence count nor collides with
// the product_categories primary key on insert.
func (s *ProductService) validateCategories(ctx context.Context, ids []int64) ([]int64, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) < model.MinProductCategories || len(unique) > model.MaxProductCategories {
		return nil, model.ErrInvalidCategoryCount
	}
	count, err := s.categoryRepo.CountSelectableByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("validate categories: %w", err)
	}
	if count != len(unique) {
		return nil, model.ErrCategoryNotFound
	}
	return unique, nil
}

// scheduleImageCleanup publishes a cleanup event per removed image.
// Failures are logged only; the product mutation already succeeded.
func (s *ProductService) scheduleImageCleanup(productID int64, urls []string) {
	if s.publisher == nil {
		return
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := s.publisher.Publish(ctx, queue.StreamCleanup, queue.NewImageDeletedEvent(url, productID))
		cancel()
		if err != nil {
			log.Printf("[ProductService] Schedule cleanup FAILED: product=%d url=%s err=%v", productID, url, err)
		}
	}
}

// diffRemovedImages returns the URLs present in old but absent from new.
func diffRemovedImages(old, new []string) []string {
	keep := make(map[string]struct{}, len(new))
	for _, url := range new {
		keep[url] = struct{}{}
	}
	var removed []string
	for _, url := range old {
		if _, ok := keep[url]; !ok {
			removed = append(removed, url)
		}
	}
	return removed
}
