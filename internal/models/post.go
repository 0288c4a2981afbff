// Package models contains data structures for the application's domain models.
package models

import "time"

// PostVisibility controls whether a post appears in listings.
type PostVisibility string

const (
	// PostVisibilityPublic means the post shows up in feeds, search and flows.
	PostVisibilityPublic PostVisibility = "public"
	// PostVisibilityPrivate means the post is reachable only by direct link.
	PostVisibilityPrivate PostVisibility = "private"
)

// PublicIDLength is the length of the random identifier exposed in URLs.
const PublicIDLength = 8

// MaxFlowsPerPost caps how many flows a single post may be filed under.
const MaxFlowsPerPost = 5

// Post represents a media post in the Flowshare application.
//
// Score, CommentCount and Views are denormalized counters maintained in the
// same transaction as the fact that changes them. They are never recomputed
// from the vote or comment tables at read time.
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"-"`
	PostID       string         `gorm:"size:8;not null;uniqueIndex" json:"post_id"`
	Title        string         `gorm:"size:128" json:"title"`
	UserID       *uint          `gorm:"index" json:"user_id,omitempty"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Visibility   PostVisibility `gorm:"type:varchar(10);not null;default:'public'" json:"visibility"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	Score        int            `gorm:"not null;default:0" json:"score"`
	CommentCount int            `gorm:"not null;default:0" json:"comment_count"`
	Views        int            `gorm:"not null;default:0" json:"views"`
	Media        []PostMedia    `gorm:"foreignKey:PostID" json:"media,omitempty"`
	Flows        []Flow         `gorm:"many2many:post_flows" json:"flows,omitempty"`
	// HasUpvote is not persisted; computed per viewer at query time
	HasUpvote bool      `gorm:"->" json:"has_upvote"`
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt stays nil until the post is first edited.
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// PostMedia is one item in a post's ordered media gallery.
type PostMedia struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"-"`
	URL         string    `gorm:"size:512;not null" json:"url"`
	Description string    `gorm:"size:512" json:"description,omitempty"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (PostMedia) TableName() string {
	return "post_media"
}
