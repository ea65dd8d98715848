package services

import (
	"context"
	"encoding/json"
	"log"

	"Medivue/ledger"
	"Medivue/models"
	"Medivue/repositories"
)

// SummaryCache caches computed summaries; writes to the ledger invalidate it.
type SummaryCache interface {
	GetSummaryCache(ctx context.Context, key string) (string, error)
	SetSummaryCache(ctx context.Context, key string, payload []byte) error
}

// SummaryService serves period rollups off the read-only aggregator, with a
// Redis cache in front since dashboards poll these heavily.
type SummaryService struct {
	aggregator *ledger.Aggregator
	cache      SummaryCache
}

func NewSummaryService(aggregator *ledger.Aggregator, cache SummaryCache) *SummaryService {
	return &SummaryService{aggregator: aggregator, cache: cache}
}

// Period computes the summary for the filter. Cache failures fall back to a
// fresh computation; the aggregator itself never touches I/O.
func (s *SummaryService) Period(ctx context.Context, filter ledger.SummaryFilter) models.PeriodSummary {
	cacheKey := repositories.SummaryCacheKey(filter.PatientID, filter.DoctorID,
		string(filter.Start), string(filter.End))

	if s.cache != nil {
		if cached, err := s.cache.GetSummaryCache(ctx, cacheKey); err == nil && cached != "" {
			var summary models.PeriodSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return summary
			}
		}
	}

	summary := s.aggregator.Period(filter)

	if s.cache != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.SetSummaryCache(ctx, cacheKey, payload); err != nil {
				log.Printf("Failed to cache summary: %v", err)
			}
		}
	}
	return summary
}
