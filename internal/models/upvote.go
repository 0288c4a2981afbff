package models

import "time"

// PostUpvote is an existence-only fact: at most one row per (post, user)
// pair, enforced by the composite primary key.
type PostUpvote struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentUpvote mirrors PostUpvote for comments.
type CommentUpvote struct {
	CommentID uint      `gorm:"primaryKey;autoIncrement:false" json:"comment_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
