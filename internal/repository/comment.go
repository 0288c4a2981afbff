package repository

import (
	"context"

	"flowshare/internal/models"
	"flowshare/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Comment, error)
	ListTopLevel(ctx context.Context, postID uint, limit, offset int, viewerID uint, sort string) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID uint, limit, offset int, viewerID uint, sort string) ([]*models.Comment, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

// Create inserts the comment and moves the denormalized counters in the same
// transaction: the post's comment_count always, the parent's reply_count when
// the comment is a reply.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return err
		}
		if comment.ParentID != nil {
			if err := tx.Model(&models.Comment{}).
				Where("id = ?", *comment.ParentID).
				UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
		"is_reply":   comment.ParentID != nil,
	})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := applyCommentDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, postID uint, limit, offset int, viewerID uint, sort string) ([]*models.Comment, error) {
	var comments []*models.Comment
	base := applyCommentDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("post_id = ? AND parent_id IS NULL", postID)
	err := applyCommentSort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID uint, limit, offset int, viewerID uint, sort string) ([]*models.Comment, error) {
	var comments []*models.Comment
	base := applyCommentDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("parent_id = ?", parentID)
	err := applyCommentSort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

// applyCommentDetails mirrors applyPostDetails for the comment ledger.
func applyCommentDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	if viewerID != 0 {
		return db.Select(
			"comments.*, EXISTS(SELECT 1 FROM comment_upvotes WHERE comment_upvotes.comment_id = comments.id AND comment_upvotes.user_id = ?) AS has_upvote",
			viewerID,
		)
	}
	return db.Select("comments.*, ? AS has_upvote", false)
}

func applyCommentSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortMostLiked:
		return db.Order("score DESC, comments.created_at DESC")
	case SortOldest:
		return db.Order("comments.created_at ASC")
	default: // SortNewest and anything unrecognized
		return db.Order("comments.created_at DESC")
	}
}
