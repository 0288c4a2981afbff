package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"flowshare/internal/models"
	"flowshare/internal/repository"

	"gorm.io/gorm"
)

const (
	// CommentPageSize is the fixed page size for comment listings.
	CommentPageSize = 30

	maxCommentLen = 10000
)

// CommentService owns the two-level discussion threads under posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// AddCommentInput creates a top-level comment on a post.
type AddCommentInput struct {
	UserID       uint
	PostPublicID string
	Content      string
}

// AddReplyInput creates a reply to an existing top-level comment.
type AddReplyInput struct {
	UserID       uint
	PostPublicID string
	ParentID     uint
	Content      string
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// AddComment validates and stores a top-level comment. The post's
// comment_count moves in the same transaction as the insert.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content, err := validateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}
	postID, err := s.resolvePost(ctx, in.PostPublicID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  in.UserID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.getCreated(ctx, comment.ID, in.UserID)
}

// AddReply validates the parent and stores a reply. The parent must belong
// to the same post and must itself be top-level; deeper nesting is rejected.
func (s *CommentService) AddReply(ctx context.Context, in AddReplyInput) (*models.Comment, error) {
	content, err := validateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}
	postID, err := s.resolvePost(ctx, in.PostPublicID)
	if err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.GetByID(ctx, in.ParentID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.ParentID)
		}
		return nil, models.NewInternalError(err)
	}
	if parent.PostID != postID {
		return nil, models.NewValidationError("Parent comment belongs to a different post")
	}
	if parent.ParentID != nil {
		return nil, models.NewValidationError("Replies cannot be nested deeper than one level")
	}

	parentID := parent.ID
	comment := &models.Comment{
		PostID:   postID,
		UserID:   in.UserID,
		Content:  content,
		ParentID: &parentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.getCreated(ctx, comment.ID, in.UserID)
}

// ListComments returns one page of a post's top-level comments.
func (s *CommentService) ListComments(ctx context.Context, postPublicID string, page int, viewerID uint, sort string) ([]*models.Comment, error) {
	offset, err := pageOffset(page, CommentPageSize)
	if err != nil {
		return nil, err
	}
	sort, err = validateCommentSort(sort)
	if err != nil {
		return nil, err
	}
	postID, err := s.resolvePost(ctx, postPublicID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListTopLevel(ctx, postID, CommentPageSize, offset, viewerID, sort)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListReplies returns one page of a comment's direct replies.
func (s *CommentService) ListReplies(ctx context.Context, parentID uint, page int, viewerID uint, sort string) ([]*models.Comment, error) {
	offset, err := pageOffset(page, CommentPageSize)
	if err != nil {
		return nil, err
	}
	sort, err = validateCommentSort(sort)
	if err != nil {
		return nil, err
	}
	if _, err := s.commentRepo.GetByID(ctx, parentID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", parentID)
		}
		return nil, models.NewInternalError(err)
	}
	replies, err := s.commentRepo.ListReplies(ctx, parentID, CommentPageSize, offset, viewerID, sort)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

func (s *CommentService) resolvePost(ctx context.Context, publicID string) (uint, error) {
	id, err := s.postRepo.ResolveID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("Post", publicID)
		}
		return 0, models.NewInternalError(err)
	}
	return id, nil
}

func (s *CommentService) getCreated(ctx context.Context, id, viewerID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return content, nil
}
