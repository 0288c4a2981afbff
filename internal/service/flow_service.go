package service

import (
	"context"
	"errors"
	"strings"

	"flowshare/internal/models"
	"flowshare/internal/repository"

	"gorm.io/gorm"
)

// FlowOverviewLimit is how many flows the overview page shows.
const FlowOverviewLimit = 8

// FlowSuggestLimit is how many autocomplete suggestions are returned.
const FlowSuggestLimit = 8

// FlowService exposes the flow aggregation reads.
type FlowService struct {
	flowRepo repository.FlowRepository
}

// NewFlowService creates a new FlowService.
func NewFlowService(flowRepo repository.FlowRepository) *FlowService {
	return &FlowService{flowRepo: flowRepo}
}

// GetFlow returns a flow by its exact, case-sensitive name.
func (s *FlowService) GetFlow(ctx context.Context, name string) (*models.Flow, error) {
	flow, err := s.flowRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Flow", name)
		}
		return nil, models.NewInternalError(err)
	}
	return flow, nil
}

// Overview returns the most active flows with representative thumbnails.
func (s *FlowService) Overview(ctx context.Context) ([]models.FlowOverviewEntry, error) {
	entries, err := s.flowRepo.Overview(ctx, FlowOverviewLimit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// Suggest returns flow name completions for a partial, case-sensitive prefix.
func (s *FlowService) Suggest(ctx context.Context, prefix string) ([]models.FlowSuggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, models.NewValidationError("Prefix is required")
	}
	suggestions, err := s.flowRepo.SuggestByPrefix(ctx, prefix, FlowSuggestLimit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return suggestions, nil
}
