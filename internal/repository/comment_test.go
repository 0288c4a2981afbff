package repository

import (
	"context"
	"testing"
	"time"

	"flowshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRepositoryCreate(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "erin")
	post := createTestPost(t, db, postRepo, user, "Discussed", nil)

	t.Run("TopLevelMovesCommentCount", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, UserID: user.ID, Content: "First"}
		require.NoError(t, repo.Create(ctx, comment))
		assert.NotZero(t, comment.ID)

		var got models.Post
		require.NoError(t, db.Take(&got, post.ID).Error)
		assert.Equal(t, 1, got.CommentCount)
	})

	t.Run("ReplyMovesBothCounters", func(t *testing.T) {
		var parent models.Comment
		require.NoError(t, db.Where("post_id = ?", post.ID).Take(&parent).Error)

		parentID := parent.ID
		reply := &models.Comment{
			PostID:   post.ID,
			UserID:   user.ID,
			Content:  "A reply",
			ParentID: &parentID,
		}
		require.NoError(t, repo.Create(ctx, reply))

		var gotPost models.Post
		require.NoError(t, db.Take(&gotPost, post.ID).Error)
		assert.Equal(t, 2, gotPost.CommentCount)

		var gotParent models.Comment
		require.NoError(t, db.Take(&gotParent, parent.ID).Error)
		assert.Equal(t, 1, gotParent.ReplyCount)
	})
}

func TestCommentRepositoryGetByID(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	voteRepo := NewVoteRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "frank")
	post := createTestPost(t, db, postRepo, user, "Post", nil)

	comment := &models.Comment{PostID: post.ID, UserID: user.ID, Content: "Hello"}
	require.NoError(t, repo.Create(ctx, comment))

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999, 0)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("ViewerDecoration", func(t *testing.T) {
		_, err := voteRepo.CastCommentUpvote(ctx, comment.ID, user.ID)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, comment.ID, user.ID)
		require.NoError(t, err)
		assert.True(t, got.HasUpvote)
		require.NotNil(t, got.User)
		assert.Equal(t, "frank", got.User.Username)

		got, err = repo.GetByID(ctx, comment.ID, 0)
		require.NoError(t, err)
		assert.False(t, got.HasUpvote)
	})
}

func TestCommentRepositoryListTopLevel(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "grace")
	post := createTestPost(t, db, postRepo, user, "Threaded", nil)

	base := time.Now().UTC().Add(-time.Hour)
	mk := func(content string, at time.Time, score int) *models.Comment {
		c := &models.Comment{PostID: post.ID, UserID: user.ID, Content: content}
		require.NoError(t, repo.Create(ctx, c))
		require.NoError(t, db.Model(c).UpdateColumns(map[string]interface{}{
			"created_at": at, "score": score,
		}).Error)
		return c
	}

	first := mk("first", base, 0)
	second := mk("second", base.Add(time.Minute), 3)
	third := mk("third", base.Add(2*time.Minute), 3)

	// a reply must never show up in the top-level listing
	parentID := first.ID
	reply := &models.Comment{PostID: post.ID, UserID: user.ID, Content: "reply", ParentID: &parentID}
	require.NoError(t, repo.Create(ctx, reply))

	t.Run("NewestFirst", func(t *testing.T) {
		comments, err := repo.ListTopLevel(ctx, post.ID, 30, 0, 0, SortNewest)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "third", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)
		assert.Equal(t, "first", comments[2].Content)
	})

	t.Run("OldestFirst", func(t *testing.T) {
		comments, err := repo.ListTopLevel(ctx, post.ID, 30, 0, 0, SortOldest)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "first", comments[0].Content)
	})

	t.Run("MostLikedBreaksTiesByRecency", func(t *testing.T) {
		comments, err := repo.ListTopLevel(ctx, post.ID, 30, 0, 0, SortMostLiked)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, third.ID, comments[0].ID)
		assert.Equal(t, second.ID, comments[1].ID)
		assert.Equal(t, first.ID, comments[2].ID)
	})

	t.Run("Pagination", func(t *testing.T) {
		comments, err := repo.ListTopLevel(ctx, post.ID, 2, 0, 0, SortOldest)
		require.NoError(t, err)
		assert.Len(t, comments, 2)

		comments, err = repo.ListTopLevel(ctx, post.ID, 2, 2, 0, SortOldest)
		require.NoError(t, err)
		assert.Len(t, comments, 1)

		comments, err = repo.ListTopLevel(ctx, post.ID, 2, 60, 0, SortOldest)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

func TestCommentRepositoryListReplies(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "heidi")
	post := createTestPost(t, db, postRepo, user, "Post", nil)

	parent := &models.Comment{PostID: post.ID, UserID: user.ID, Content: "parent"}
	require.NoError(t, repo.Create(ctx, parent))

	parentID := parent.ID
	for _, content := range []string{"r1", "r2"} {
		reply := &models.Comment{PostID: post.ID, UserID: user.ID, Content: content, ParentID: &parentID}
		require.NoError(t, repo.Create(ctx, reply))
	}

	replies, err := repo.ListReplies(ctx, parent.ID, 30, 0, 0, SortOldest)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "r1", replies[0].Content)
	assert.Equal(t, "r2", replies[1].Content)
}
