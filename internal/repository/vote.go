package repository

import (
	"context"

	"flowshare/internal/models"
	"flowshare/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository is the upvote ledger. Each operation reports whether it
// actually changed state: casting an upvote that already exists and
// retracting one that was never cast are silent no-ops.
//
// Callers are expected to have verified the target exists; the ledger only
// guarantees that counters move in the same transaction as the vote fact.
type VoteRepository interface {
	CastPostUpvote(ctx context.Context, postID, userID uint) (bool, error)
	RetractPostUpvote(ctx context.Context, postID, userID uint) (bool, error)
	HasPostUpvote(ctx context.Context, postID, userID uint) (bool, error)
	CastCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error)
	RetractCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error)
	HasCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote ledger backed by the given DB.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) CastPostUpvote(ctx context.Context, postID, userID uint) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vote := models.PostUpvote{PostID: postID, UserID: userID, CreatedAt: nowUTC()}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("score", gorm.Expr("score + 1")).Error; err != nil {
			return err
		}
		return adjustPostOwnerReputation(tx, postID, +1)
	})
	if err != nil {
		return false, err
	}
	observability.RecordVote("post", "cast", applied)
	return applied, nil
}

func (r *voteRepository) RetractPostUpvote(ctx context.Context, postID, userID uint) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostUpvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("score", gorm.Expr("score - 1")).Error; err != nil {
			return err
		}
		return adjustPostOwnerReputation(tx, postID, -1)
	})
	if err != nil {
		return false, err
	}
	observability.RecordVote("post", "retract", applied)
	return applied, nil
}

func (r *voteRepository) HasPostUpvote(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostUpvote{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *voteRepository) CastCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vote := models.CommentUpvote{CommentID: commentID, UserID: userID, CreatedAt: nowUTC()}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		if err := tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("score", gorm.Expr("score + 1")).Error; err != nil {
			return err
		}
		return adjustCommentAuthorReputation(tx, commentID, +1)
	})
	if err != nil {
		return false, err
	}
	observability.RecordVote("comment", "cast", applied)
	return applied, nil
}

func (r *voteRepository) RetractCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&models.CommentUpvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		if err := tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("score", gorm.Expr("score - 1")).Error; err != nil {
			return err
		}
		return adjustCommentAuthorReputation(tx, commentID, -1)
	})
	if err != nil {
		return false, err
	}
	observability.RecordVote("comment", "retract", applied)
	return applied, nil
}

func (r *voteRepository) HasCommentUpvote(ctx context.Context, commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentUpvote{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

// adjustPostOwnerReputation moves the post owner's reputation. Anonymous
// posts have no owner, so there is nothing to move.
func adjustPostOwnerReputation(tx *gorm.DB, postID uint, delta int) error {
	var post models.Post
	if err := tx.Select("user_id").Take(&post, postID).Error; err != nil {
		return err
	}
	if post.UserID == nil {
		return nil
	}
	return tx.Model(&models.User{}).
		Where("id = ?", *post.UserID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).Error
}

func adjustCommentAuthorReputation(tx *gorm.DB, commentID uint, delta int) error {
	var comment models.Comment
	if err := tx.Select("user_id").Take(&comment, commentID).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).
		Where("id = ?", comment.UserID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).Error
}
