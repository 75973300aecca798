package service

import (
	"context"
	"time"

	"github.com/genpass/genpass-go/internal/model"
)

// StatsReader reads aggregated generation events.
type StatsReader interface {
	StatsSince(ctx context.Context, since time.Time) ([]model.PresetStats, error)
}

// StatsService reports how presets are being used.
type StatsService struct {
	repo StatsReader
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo StatsReader) *StatsService {
	return &StatsService{repo: repo}
}

// Stats returns per-preset counts for events after since.
func (s *StatsService) Stats(ctx context.Context, since time.Time) (model.StatsResponse, error) {
	stats, err := s.repo.StatsSince(ctx, since)
	if err != nil {
		return model.StatsResponse{}, err
	}
	if stats == nil {
		stats = []model.PresetStats{}
	}
	return model.StatsResponse{Since: since.UTC(), Presets: stats}, nil
}
