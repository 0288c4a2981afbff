package models

import "time"

// User represents a registered account in the Flowshare application.
//
// Reputation counts upvotes received across the user's posts and comments,
// maintained transactionally by the vote ledger.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:32;not null;uniqueIndex" json:"username"`
	Password   string    `gorm:"not null" json:"-"`
	Reputation int       `gorm:"not null;default:0" json:"reputation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Posts      []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
