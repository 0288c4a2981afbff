package models

import "time"

// Comment represents a comment on a post. Threading is capped at two
// levels: a comment either has no parent or its parent is itself a
// top-level comment. The cap is enforced at write time.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
	// ReplyCount counts direct children only.
	ReplyCount int `gorm:"not null;default:0" json:"reply_count"`
	Score      int `gorm:"not null;default:0" json:"score"`
	// HasUpvote is not persisted; computed per viewer at query time
	HasUpvote bool      `gorm:"->" json:"has_upvote"`
	CreatedAt time.Time `json:"created_at"`
}
