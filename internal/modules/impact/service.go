package impact

import (
	"context"

	"villagestay/internal/repository"
)

// StatsRepository is the read-only surface the reporting engine needs.
type StatsRepository interface {
	VillageTotals(ctx context.Context) ([]repository.VillageTotal, error)
	UserImpact(ctx context.Context, userID int64) (*repository.UserImpact, error)
	PlatformStats(ctx context.Context) (*repository.PlatformStats, error)
}

type Service struct {
	stats StatsRepository
}

func NewService(stats StatsRepository) *Service {
	return &Service{stats: stats}
}

// VillageTotals powers the village leaderboard. Villages with no bookings
// never appear: the view is derived from booking snapshots, not from the
// package catalog.
func (s *Service) VillageTotals(ctx context.Context) ([]repository.VillageTotal, error) {
	totals, err := s.stats.VillageTotals(ctx)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []repository.VillageTotal{}
	}
	return totals, nil
}

// UserImpactTotal returns a buyer's lifetime impact figure across every
// lifecycle state; a user with no bookings gets {0, 0}.
func (s *Service) UserImpactTotal(ctx context.Context, userID int64) (*repository.UserImpact, error) {
	return s.stats.UserImpact(ctx, userID)
}

// PlatformImpactStats is the platform-wide dashboard aggregate over paid
// bookings.
func (s *Service) PlatformImpactStats(ctx context.Context) (*repository.PlatformStats, error) {
	return s.stats.PlatformStats(ctx)
}
