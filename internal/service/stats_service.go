package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
)

// StatsService aggregates dashboard figures.
type StatsService struct {
	stats    repository.StatsRepository
	cache    repository.StatsCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatsService builds the service. A nil cache or zero ttl disables caching.
func NewStatsService(stats repository.StatsRepository, cache repository.StatsCache, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{stats: stats, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// AdminStats returns platform totals, served from cache when fresh. Cache failures are
// logged and the figures are computed from the store.
func (s *StatsService) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	if s.cachingEnabled() {
		cached, ok, err := s.cache.GetAdminStats(ctx)
		if err != nil {
			s.logger.Warn("admin stats cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	var stats domain.AdminStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.UsersCount, err = s.stats.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.DeliveryPersonsCount, err = s.stats.CountUsersByRole(gctx, domain.RoleDeliveryPerson)
		return err
	})
	g.Go(func() (err error) {
		stats.ParcelsCount, err = s.stats.CountParcels(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.DeliveredParcelsCount, err = s.stats.CountParcelsByStatus(gctx, domain.ParcelStatusDelivered)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.stats.TotalRevenue(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cachingEnabled() {
		if err := s.cache.SetAdminStats(ctx, stats, s.cacheTTL); err != nil {
			s.logger.Warn("admin stats cache write failed", zap.Error(err))
		}
	}
	return &stats, nil
}

// BookingStats returns per-day booking and delivery counts.
func (s *StatsService) BookingStats(ctx context.Context) ([]domain.BookingDay, error) {
	return s.stats.BookingsByDay(ctx)
}

func (s *StatsService) cachingEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}
