package service

import (
	"context"
	"errors"
	"testing"

	"flowshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post, []string) error
	getByPublicIDFn  func(context.Context, string, uint) (*models.Post, error)
	resolveIDFn      func(context.Context, string) (uint, error)
	incrementViewsFn func(context.Context, string) error
	listFn           func(context.Context, int, int, uint, string) ([]*models.Post, error)
	listByFlowFn     func(context.Context, string, int, int, uint, string) ([]*models.Post, error)
	listByUserIDFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	searchFn         func(context.Context, string, int, int, uint, string) ([]*models.Post, error)
	updateTitleFn    func(context.Context, *models.Post, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, flowNames []string) error {
	return s.createFn(ctx, post, flowNames)
}
func (s *postRepoStub) GetByPublicID(ctx context.Context, publicID string, viewerID uint) (*models.Post, error) {
	return s.getByPublicIDFn(ctx, publicID, viewerID)
}
func (s *postRepoStub) ResolveID(ctx context.Context, publicID string) (uint, error) {
	return s.resolveIDFn(ctx, publicID)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, publicID string) error {
	return s.incrementViewsFn(ctx, publicID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, viewerID, sort)
}
func (s *postRepoStub) ListByFlow(ctx context.Context, flowName string, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	return s.listByFlowFn(ctx, flowName, limit, offset, viewerID, sort)
}
func (s *postRepoStub) ListByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.listByUserIDFn(ctx, userID, limit, offset, viewerID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, viewerID, sort)
}
func (s *postRepoStub) UpdateTitle(ctx context.Context, post *models.Post, title string) error {
	return s.updateTitleFn(ctx, post, title)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		getByPublicIDFn: func(_ context.Context, _ string, _ uint) (*models.Post, error) {
			return &models.Post{}, nil
		},
		resolveIDFn:      func(_ context.Context, _ string) (uint, error) { return 1, nil },
		incrementViewsFn: func(_ context.Context, _ string) error { return nil },
		listFn: func(_ context.Context, _, _ int, _ uint, _ string) ([]*models.Post, error) {
			return nil, nil
		},
		listByFlowFn: func(_ context.Context, _ string, _, _ int, _ uint, _ string) ([]*models.Post, error) {
			return nil, nil
		},
		listByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		searchFn: func(_ context.Context, _ string, _, _ int, _ uint, _ string) ([]*models.Post, error) {
			return nil, nil
		},
		updateTitleFn: func(_ context.Context, _ *models.Post, _ string) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint, uint) (*models.Comment, error)
	listTopLevelFn func(context.Context, uint, int, int, uint, string) ([]*models.Comment, error)
	listRepliesFn  func(context.Context, uint, int, int, uint, string) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *commentRepoStub) ListTopLevel(ctx context.Context, postID uint, limit, offset int, viewerID uint, sort string) ([]*models.Comment, error) {
	return s.listTopLevelFn(ctx, postID, limit, offset, viewerID, sort)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uint, limit, offset int, viewerID uint, sort string) ([]*models.Comment, error) {
	return s.listRepliesFn(ctx, parentID, limit, offset, viewerID, sort)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Comment, error) {
			return &models.Comment{}, nil
		},
		listTopLevelFn: func(_ context.Context, _ uint, _, _ int, _ uint, _ string) ([]*models.Comment, error) {
			return nil, nil
		},
		listRepliesFn: func(_ context.Context, _ uint, _, _ int, _ uint, _ string) ([]*models.Comment, error) {
			return nil, nil
		},
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	castPostFn       func(context.Context, uint, uint) (bool, error)
	retractPostFn    func(context.Context, uint, uint) (bool, error)
	hasPostFn        func(context.Context, uint, uint) (bool, error)
	castCommentFn    func(context.Context, uint, uint) (bool, error)
	retractCommentFn func(context.Context, uint, uint) (bool, error)
	hasCommentFn     func(context.Context, uint, uint) (bool, error)
}

func (s *voteRepoStub) CastPostUpvote(ctx context.Context, postID, userID uint) (bool, error) {
	return s.castPostFn(ctx, postID, userID)
}
func (s *voteRepoStub) RetractPostUpvote(ctx context.Context, postID, userID uint) (bool, error) {
	return s.retractPostFn(ctx, postID, userID)
}
func (s *voteRepoStub) HasPostUpvote(ctx context.Context, postID, userID uint) (bool, error) {
	return s.hasPostFn(ctx, postID, userID)
}
func (s *voteRepoStub) CastCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error) {
	return s.castCommentFn(ctx, commentID, userID)
}
func (s *voteRepoStub) RetractCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error) {
	return s.retractCommentFn(ctx, commentID, userID)
}
func (s *voteRepoStub) HasCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error) {
	return s.hasCommentFn(ctx, commentID, userID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		castPostFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		retractPostFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		hasPostFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		castCommentFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		retractCommentFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		hasCommentFn:     func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// flowRepoStub is a stub for repository.FlowRepository.
type flowRepoStub struct {
	getByNameFn       func(context.Context, string) (*models.Flow, error)
	overviewFn        func(context.Context, int) ([]models.FlowOverviewEntry, error)
	suggestByPrefixFn func(context.Context, string, int) ([]models.FlowSuggestion, error)
}

func (s *flowRepoStub) GetByName(ctx context.Context, name string) (*models.Flow, error) {
	return s.getByNameFn(ctx, name)
}
func (s *flowRepoStub) Overview(ctx context.Context, limit int) ([]models.FlowOverviewEntry, error) {
	return s.overviewFn(ctx, limit)
}
func (s *flowRepoStub) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]models.FlowSuggestion, error) {
	return s.suggestByPrefixFn(ctx, prefix, limit)
}

func noopFlowRepo() *flowRepoStub {
	return &flowRepoStub{
		getByNameFn: func(_ context.Context, _ string) (*models.Flow, error) {
			return &models.Flow{}, nil
		},
		overviewFn: func(_ context.Context, _ int) ([]models.FlowOverviewEntry, error) {
			return nil, nil
		},
		suggestByPrefixFn: func(_ context.Context, _ string, _ int) ([]models.FlowSuggestion, error) {
			return nil, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

// notFound is a resolveID stub that reports a missing record.
func notFound(_ context.Context, _ string) (uint, error) {
	return 0, gorm.ErrRecordNotFound
}
