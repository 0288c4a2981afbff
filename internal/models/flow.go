package models

import "time"

// Flow is a topic grouping posts are filed under. Flows are created lazily
// when a post first references the name and are never deleted; names are
// case sensitive, so "Cats" and "cats" are distinct flows.
type Flow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:32;not null;uniqueIndex" json:"name"`
	PostCount int       `gorm:"not null;default:0" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Flow) TableName() string {
	return "flows"
}

// FlowOverviewEntry is one row of the flow overview: a flow plus the
// thumbnail of its current top-ranked public post.
type FlowOverviewEntry struct {
	Name         string `json:"name"`
	PostCount    int    `json:"post_count"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FlowSuggestion is a prefix-match result for flow name autocompletion.
type FlowSuggestion struct {
	Name      string `json:"name"`
	PostCount int    `json:"post_count"`
}
