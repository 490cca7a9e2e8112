package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/withonly-sujal/bloodbank-api/internal/dto"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type dashboardRepository interface {
	DonorCount(ctx context.Context) (int, error)
	AvailableBagCount(ctx context.Context) (int, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the landing summary.
type DashboardService struct {
	repo   dashboardRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(repo dashboardRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, cfg: cfg}
}

// Stats returns headline counts and indicates cache utilisation.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, bool, error) {
	const cacheKey = "dashboard:stats"
	if s.cache != nil {
		var cached dto.DashboardStats
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	donors, err := s.repo.DonorCount(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count donors")
	}
	stock, err := s.repo.AvailableBagCount(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count available bags")
	}

	stats := &dto.DashboardStats{DonorCount: donors, StockCount: stock}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, false, nil
}
