package stats

import (
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"sort"
)

const (
	perKindActivity = 3
	recentActivity  = 5
)

type statsRepo interface {
	Totals(ctx context.Context) (*models.Stats, error)
	TopicSummaries(ctx context.Context) ([]models.TopicSummary, error)
	RecentActivity(ctx context.Context, limit int) ([]models.Activity, error)
}

type StatsService struct {
	log  logger.Log
	repo statsRepo
}

func NewStatsService(l logger.Log, r statsRepo) *StatsService {
	return &StatsService{log: l, repo: r}
}

func (s *StatsService) Totals(ctx context.Context) (*models.Stats, error) {
	return s.repo.Totals(ctx)
}

func (s *StatsService) TopicSummaries(ctx context.Context) ([]models.TopicSummary, error) {
	summaries, err := s.repo.TopicSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.TopicSummary{}
	}
	return summaries, nil
}

// RecentActivity takes the newest few rows of each kind and keeps the newest
// overall.
func (s *StatsService) RecentActivity(ctx context.Context) ([]models.Activity, error) {
	rows, err := s.repo.RecentActivity(ctx, perKindActivity)
	if err != nil {
		return nil, err
	}
	return MergeActivity(rows, recentActivity), nil
}

// MergeActivity orders activity newest first and truncates to limit. Equal
// timestamps keep their input order.
func MergeActivity(rows []models.Activity, limit int) []models.Activity {
	out := make([]models.Activity, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
