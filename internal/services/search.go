package services

import (
	"context"

	"outreachengine/internal/domain"
)

const defaultSearchLimit = 100

type searchService struct {
	recipients domain.RecipientRepository
}

// NewSearchService returns a SearchService over the lead store.
func NewSearchService(recipients domain.RecipientRepository) domain.SearchService {
	return &searchService{recipients: recipients}
}

func (s *searchService) SearchDaycares(ctx context.Context, f domain.DaycareFilter) ([]*domain.Daycare, error) {
	if f.Limit < 1 {
		f.Limit = defaultSearchLimit
	}
	return s.recipients.SearchDaycares(ctx, f)
}

func (s *searchService) SearchInfluencers(ctx context.Context, f domain.InfluencerFilter) ([]*domain.Influencer, error) {
	if f.Limit < 1 {
		f.Limit = defaultSearchLimit
	}
	return s.recipients.SearchInfluencers(ctx, f)
}
