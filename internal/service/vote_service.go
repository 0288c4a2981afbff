package service

import (
	"context"
	"errors"

	"flowshare/internal/cache"
	"flowshare/internal/models"
	"flowshare/internal/repository"

	"gorm.io/gorm"
)

// VoteService validates vote targets and drives the idempotent vote ledger.
// Existence checks live here; the ledger itself trusts its caller.
type VoteService struct {
	voteRepo    repository.VoteRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewVoteService creates a new VoteService.
func NewVoteService(voteRepo repository.VoteRepository, postRepo repository.PostRepository, commentRepo repository.CommentRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, postRepo: postRepo, commentRepo: commentRepo}
}

// CastPostUpvote records the viewer's upvote on a post. Casting twice is a
// silent no-op.
func (s *VoteService) CastPostUpvote(ctx context.Context, postPublicID string, userID uint) error {
	postID, err := s.resolvePost(ctx, postPublicID)
	if err != nil {
		return err
	}
	applied, err := s.voteRepo.CastPostUpvote(ctx, postID, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if applied {
		cache.InvalidatePost(ctx, postPublicID)
	}
	return nil
}

// RetractPostUpvote removes the viewer's upvote. Retracting a vote that was
// never cast is a silent no-op.
func (s *VoteService) RetractPostUpvote(ctx context.Context, postPublicID string, userID uint) error {
	postID, err := s.resolvePost(ctx, postPublicID)
	if err != nil {
		return err
	}
	applied, err := s.voteRepo.RetractPostUpvote(ctx, postID, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if applied {
		cache.InvalidatePost(ctx, postPublicID)
	}
	return nil
}

// TogglePostUpvote flips the viewer's upvote state and reports the state
// after the call.
func (s *VoteService) TogglePostUpvote(ctx context.Context, postPublicID string, userID uint) (bool, error) {
	postID, err := s.resolvePost(ctx, postPublicID)
	if err != nil {
		return false, err
	}
	has, err := s.voteRepo.HasPostUpvote(ctx, postID, userID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if has {
		if _, err := s.voteRepo.RetractPostUpvote(ctx, postID, userID); err != nil {
			return false, models.NewInternalError(err)
		}
	} else {
		if _, err := s.voteRepo.CastPostUpvote(ctx, postID, userID); err != nil {
			return false, models.NewInternalError(err)
		}
	}
	cache.InvalidatePost(ctx, postPublicID)
	return !has, nil
}

// CastCommentUpvote records the viewer's upvote on a comment.
func (s *VoteService) CastCommentUpvote(ctx context.Context, commentID, userID uint) error {
	if err := s.checkComment(ctx, commentID); err != nil {
		return err
	}
	if _, err := s.voteRepo.CastCommentUpvote(ctx, commentID, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RetractCommentUpvote removes the viewer's upvote from a comment.
func (s *VoteService) RetractCommentUpvote(ctx context.Context, commentID, userID uint) error {
	if err := s.checkComment(ctx, commentID); err != nil {
		return err
	}
	if _, err := s.voteRepo.RetractCommentUpvote(ctx, commentID, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleCommentUpvote flips the viewer's upvote state on a comment and
// reports the state after the call.
func (s *VoteService) ToggleCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error) {
	if err := s.checkComment(ctx, commentID); err != nil {
		return false, err
	}
	has, err := s.voteRepo.HasCommentUpvote(ctx, commentID, userID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if has {
		if _, err := s.voteRepo.RetractCommentUpvote(ctx, commentID, userID); err != nil {
			return false, models.NewInternalError(err)
		}
	} else {
		if _, err := s.voteRepo.CastCommentUpvote(ctx, commentID, userID); err != nil {
			return false, models.NewInternalError(err)
		}
	}
	return !has, nil
}

func (s *VoteService) resolvePost(ctx context.Context, publicID string) (uint, error) {
	id, err := s.postRepo.ResolveID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("Post", publicID)
		}
		return 0, models.NewInternalError(err)
	}
	return id, nil
}

func (s *VoteService) checkComment(ctx context.Context, commentID uint) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return models.NewInternalError(err)
	}
	return nil
}
