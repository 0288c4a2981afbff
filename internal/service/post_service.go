// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"flowshare/internal/models"
	"flowshare/internal/observability"
	"flowshare/internal/repository"
	"flowshare/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const (
	// PostPageSize is the fixed page size for post listings.
	PostPageSize = 20

	maxTitleLen    = 128
	maxMediaItems  = 10
	maxMediaURLLen = 512
)

// PostService owns post creation, retrieval and the ranked listings.
type PostService struct {
	postRepo repository.PostRepository
	flowRepo repository.FlowRepository
}

// MediaInput is one gallery item in a creation request.
type MediaInput struct {
	URL         string
	Description string
}

// CreatePostInput carries everything needed to create a post. A zero UserID
// means the post is anonymous.
type CreatePostInput struct {
	UserID     uint
	Title      string
	Media      []MediaInput
	Flows      []string
	Visibility models.PostVisibility
}

// UpdatePostTitleInput identifies a post edit request.
type UpdatePostTitleInput struct {
	UserID   uint
	PublicID string
	Title    string
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository, flowRepo repository.FlowRepository) *PostService {
	return &PostService{postRepo: postRepo, flowRepo: flowRepo}
}

// CreatePost validates the input and persists the post with its media and
// flow associations. The thumbnail is derived from the first media item.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 128 characters)")
	}
	if len(in.Media) == 0 {
		return nil, models.NewValidationError("At least one media item is required")
	}
	if len(in.Media) > maxMediaItems {
		return nil, models.NewValidationError("Too many media items (max 10)")
	}
	for _, m := range in.Media {
		if strings.TrimSpace(m.URL) == "" {
			return nil, models.NewValidationError("Media URL is required")
		}
		if utf8.RuneCountInString(m.URL) > maxMediaURLLen {
			return nil, models.NewValidationError("Media URL too long (max 512 characters)")
		}
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.PostVisibilityPublic
	}
	if visibility != models.PostVisibilityPublic && visibility != models.PostVisibilityPrivate {
		return nil, models.NewValidationError("Visibility must be public or private")
	}

	flowNames, err := normalizeFlowNames(in.Flows, visibility)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Visibility: visibility,
	}
	if in.UserID != 0 {
		uid := in.UserID
		post.UserID = &uid
	}
	for i, m := range in.Media {
		post.Media = append(post.Media, models.PostMedia{
			URL:         m.URL,
			Description: strings.TrimSpace(m.Description),
			Position:    i,
		})
	}
	post.ThumbnailURL = post.Media[0].URL

	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()
	span.AddAttributes(
		attribute.Int("post.media_count", len(post.Media)),
		attribute.Int("post.flow_count", len(flowNames)),
	)

	if err := s.postRepo.Create(ctx, post, flowNames); err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// normalizeFlowNames validates and dedupes the requested flow names.
// Private posts cannot be filed under flows.
func normalizeFlowNames(flows []string, visibility models.PostVisibility) ([]string, error) {
	if len(flows) == 0 {
		return nil, nil
	}
	if visibility == models.PostVisibilityPrivate {
		return nil, models.NewValidationError("Private posts cannot be added to flows")
	}

	seen := make(map[string]struct{}, len(flows))
	names := make([]string, 0, len(flows))
	for _, name := range flows {
		name = strings.TrimSpace(name)
		if err := validation.ValidateFlowName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) > models.MaxFlowsPerPost {
		return nil, models.NewValidationError("Too many flows (max 5)")
	}
	return names, nil
}

// GetPost returns the post detail payload and counts the view.
// Private posts are reachable here, by direct link only.
func (s *PostService) GetPost(ctx context.Context, publicID string, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByPublicID(ctx, publicID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", publicID)
		}
		return nil, models.NewInternalError(err)
	}
	if err := s.postRepo.IncrementViews(ctx, publicID); err != nil {
		return nil, models.NewInternalError(err)
	}
	post.Views++
	return post, nil
}

// ListPosts returns one fixed-size page of the public feed.
func (s *PostService) ListPosts(ctx context.Context, page int, viewerID uint, sort string) ([]*models.Post, error) {
	offset, err := pageOffset(page, PostPageSize)
	if err != nil {
		return nil, err
	}
	sort, err = validatePostSort(sort)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.List(ctx, PostPageSize, offset, viewerID, sort)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListByFlow returns one page of a flow's posts. An unknown flow name is a
// not-found, not an empty page.
func (s *PostService) ListByFlow(ctx context.Context, flowName string, page int, viewerID uint, sort string) ([]*models.Post, error) {
	offset, err := pageOffset(page, PostPageSize)
	if err != nil {
		return nil, err
	}
	sort, err = validatePostSort(sort)
	if err != nil {
		return nil, err
	}
	if _, err := s.flowRepo.GetByName(ctx, flowName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Flow", flowName)
		}
		return nil, models.NewInternalError(err)
	}
	posts, err := s.postRepo.ListByFlow(ctx, flowName, PostPageSize, offset, viewerID, sort)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// SearchPosts runs a case-insensitive title substring search with the same
// sorting, pagination and viewer decoration as the feed.
func (s *PostService) SearchPosts(ctx context.Context, query string, page int, viewerID uint, sort string) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	offset, err := pageOffset(page, PostPageSize)
	if err != nil {
		return nil, err
	}
	sort, err = validatePostSort(sort)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Search(ctx, query, PostPageSize, offset, viewerID, sort)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListByUser returns one page of a user's public posts, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID uint, page int, viewerID uint) ([]*models.Post, error) {
	offset, err := pageOffset(page, PostPageSize)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByUserID(ctx, userID, PostPageSize, offset, viewerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// UpdatePostTitle lets the owner edit the title. Anonymous posts have no
// owner and cannot be edited.
func (s *PostService) UpdatePostTitle(ctx context.Context, in UpdatePostTitleInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 128 characters)")
	}
	post, err := s.postRepo.GetByPublicID(ctx, in.PublicID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PublicID)
		}
		return nil, models.NewInternalError(err)
	}
	if post.UserID == nil || *post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if err := s.postRepo.UpdateTitle(ctx, post, in.Title); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// pageOffset converts a zero-based page index into an offset.
func pageOffset(page, size int) (int, error) {
	if page < 0 {
		return 0, models.NewValidationError("Page must not be negative")
	}
	return page * size, nil
}

func validatePostSort(sort string) (string, error) {
	switch sort {
	case "":
		return repository.SortNewest, nil
	case repository.SortNewest, repository.SortTop:
		return sort, nil
	default:
		return "", models.NewValidationError("Unknown sort: " + sort)
	}
}

func validateCommentSort(sort string) (string, error) {
	switch sort {
	case "":
		return repository.SortNewest, nil
	case repository.SortNewest, repository.SortMostLiked, repository.SortOldest:
		return sort, nil
	default:
		return "", models.NewValidationError("Unknown sort: " + sort)
	}
}
