package repository

import (
	"context"
	"unicode/utf8"

	"flowshare/internal/cache"
	"flowshare/internal/models"

	"gorm.io/gorm"
)

// FlowRepository reads the flow aggregation tables. Flow rows are written
// only by post creation (see PostRepository.Create), never directly.
type FlowRepository interface {
	GetByName(ctx context.Context, name string) (*models.Flow, error)
	Overview(ctx context.Context, limit int) ([]models.FlowOverviewEntry, error)
	SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]models.FlowSuggestion, error)
}

type flowRepository struct {
	db *gorm.DB
}

// NewFlowRepository creates a new FlowRepository
func NewFlowRepository(db *gorm.DB) FlowRepository {
	return &flowRepository{db: db}
}

func (r *flowRepository) GetByName(ctx context.Context, name string) (*models.Flow, error) {
	var flow models.Flow
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&flow).Error; err != nil {
		return nil, err
	}
	return &flow, nil
}

// Overview returns the most active flows, each with the thumbnail of its
// current top-ranked public post. The representative thumbnail is derived
// per call with a correlated subquery and cached briefly, never stored.
func (r *flowRepository) Overview(ctx context.Context, limit int) ([]models.FlowOverviewEntry, error) {
	var entries []models.FlowOverviewEntry
	err := cache.Aside(ctx, cache.FlowOverviewKey, &entries, cache.FlowOverviewTTL, func() error {
		return r.db.WithContext(ctx).Raw(`
			SELECT flows.name,
			       flows.post_count,
			       COALESCE((
			           SELECT posts.thumbnail_url
			           FROM posts
			           JOIN post_flows ON post_flows.post_id = posts.id
			           WHERE post_flows.flow_id = flows.id
			             AND posts.visibility = ?
			           ORDER BY posts.score DESC, posts.created_at DESC
			           LIMIT 1
			       ), '') AS thumbnail_url
			FROM flows
			ORDER BY flows.post_count DESC, flows.name ASC
			LIMIT ?`,
			models.PostVisibilityPublic, limit,
		).Scan(&entries).Error
	})
	return entries, err
}

// SuggestByPrefix matches flow names as stored, so the prefix is case
// sensitive just like the names themselves. SUBSTR compares exact characters,
// unlike LIKE, whose case sensitivity varies by store.
func (r *flowRepository) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]models.FlowSuggestion, error) {
	var suggestions []models.FlowSuggestion
	err := r.db.WithContext(ctx).
		Model(&models.Flow{}).
		Select("name, post_count").
		Where("SUBSTR(name, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix).
		Order("post_count DESC, name ASC").
		Limit(limit).
		Scan(&suggestions).Error
	return suggestions, err
}
