package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/withonly-sujal/bloodbank-api/internal/dto"
	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type reportRepository interface {
	AvailableUnits(ctx context.Context, bloodGroup string) (int, error)
	EligibleDonors(ctx context.Context, bloodGroup string) ([]models.EligibleDonor, error)
}

// ReportServiceConfig tunes reporting behaviour.
type ReportServiceConfig struct {
	CacheTTL time.Duration
}

// ReportService answers stock and eligibility queries.
type ReportService struct {
	repo    reportRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ReportServiceConfig
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Stock reports available units per blood group through the stock function.
// When bloodGroup is set only that group is reported. The second return value
// indicates cache utilisation.
func (s *ReportService) Stock(ctx context.Context, bloodGroup string) (*dto.StockReportResponse, bool, error) {
	if bloodGroup != "" && !models.IsValidBloodGroup(bloodGroup) {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "unknown blood group")
	}

	cacheKey := fmt.Sprintf("stock:%s", bloodGroup)
	if bloodGroup == "" {
		cacheKey = "stock:all"
	}
	if s.cache != nil {
		var cached dto.StockReportResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	groups := models.BloodGroups
	if bloodGroup != "" {
		groups = []string{bloodGroup}
	}

	report := &dto.StockReportResponse{Levels: make([]dto.StockLevel, 0, len(groups))}
	for _, group := range groups {
		units, err := s.repo.AvailableUnits(ctx, group)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read stock levels")
		}
		report.Levels = append(report.Levels, dto.StockLevel{BloodGroup: group, AvailableUnits: units})
		report.TotalUnits += units
		if s.metrics != nil {
			s.metrics.SetAvailableBags(group, units)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("stock cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return report, false, nil
}

// EligibleDonors lists donors currently allowed to donate again.
func (s *ReportService) EligibleDonors(ctx context.Context, bloodGroup string) ([]models.EligibleDonor, error) {
	if bloodGroup != "" && !models.IsValidBloodGroup(bloodGroup) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown blood group")
	}
	donors, err := s.repo.EligibleDonors(ctx, bloodGroup)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list eligible donors")
	}
	return donors, nil
}
