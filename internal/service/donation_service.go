package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type donationRepository interface {
	RecordSession(ctx context.Context, bags []models.BloodBag, txns []models.DonationTransaction) error
}

type staffRepository interface {
	ListActive(ctx context.Context) ([]models.Staff, error)
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

type donorFinder interface {
	FindByID(ctx context.Context, id string) (*models.Donor, error)
}

// RecordDonationRequest holds payload for a donation session.
type RecordDonationRequest struct {
	DonorID      string    `json:"donor_id" validate:"required"`
	StaffID      string    `json:"staff_id" validate:"required"`
	Units        int       `json:"units" validate:"required,min=1"`
	DonationDate time.Time `json:"donation_date"`
}

// DonationSessionResult reports what a donation session produced.
type DonationSessionResult struct {
	DonorID      string            `json:"donor_id"`
	StaffID      string            `json:"staff_id"`
	Units        int               `json:"units"`
	DonationDate time.Time         `json:"donation_date"`
	ExpiryDate   time.Time         `json:"expiry_date"`
	Bags         []models.BloodBag `json:"bags"`
}

// DonationServiceConfig tunes donation intake behaviour.
type DonationServiceConfig struct {
	MaxUnitsPerSession int
	ShelfLifeMonths    int
}

// DonationService records donation sessions.
type DonationService struct {
	donations donationRepository
	donors    donorFinder
	staff     staffRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       DonationServiceConfig
}

// DonationServiceParams groups constructor dependencies.
type DonationServiceParams struct {
	Donations donationRepository
	Donors    donorFinder
	Staff     staffRepository
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    DonationServiceConfig
}

// NewDonationService constructs a DonationService with sane defaults.
func NewDonationService(params DonationServiceParams) *DonationService {
	cfg := params.Config
	if cfg.MaxUnitsPerSession <= 0 {
		cfg.MaxUnitsPerSession = 3
	}
	if cfg.ShelfLifeMonths <= 0 {
		cfg.ShelfLifeMonths = 12
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationService{
		donations: params.Donations,
		donors:    params.Donors,
		staff:     params.Staff,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Staff lists active staff eligible to record sessions.
func (s *DonationService) Staff(ctx context.Context) ([]models.Staff, error) {
	staff, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return staff, nil
}

// Record validates and persists one donation session. Every collected unit
// becomes a quarantined bag expiring one shelf life after the donation date,
// linked to the session through a donation transaction.
func (s *DonationService) Record(ctx context.Context, req RecordDonationRequest) (*DonationSessionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donation payload")
	}
	if req.Units > s.cfg.MaxUnitsPerSession {
		return nil, appErrors.Clone(appErrors.ErrUnitCap,
			fmt.Sprintf("a session may collect at most %d units", s.cfg.MaxUnitsPerSession))
	}

	donor, err := s.donors.FindByID(ctx, req.DonorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load donor")
	}
	staff, err := s.staff.FindByID(ctx, req.StaffID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if !staff.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "staff member is inactive")
	}

	donationDate := req.DonationDate
	if donationDate.IsZero() {
		donationDate = s.now().UTC()
	}
	expiryDate := donationDate.AddDate(0, s.cfg.ShelfLifeMonths, 0)

	bags := make([]models.BloodBag, 0, req.Units)
	txns := make([]models.DonationTransaction, 0, req.Units)
	prefix := s.bagPrefix(donor.BloodGroup)
	for i := 0; i < req.Units; i++ {
		bagID := fmt.Sprintf("%s-%d", prefix, i+1)
		bags = append(bags, models.BloodBag{
			BagID:        bagID,
			BloodGroup:   donor.BloodGroup,
			DonationDate: donationDate,
			ExpiryDate:   expiryDate,
			Status:       models.BagStatusQuarantined,
			DonorID:      donor.ID,
		})
		txns = append(txns, models.DonationTransaction{
			DonorID: donor.ID,
			StaffID: staff.ID,
			BagID:   bagID,
		})
	}

	if err := s.donations.RecordSession(ctx, bags, txns); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record donation session")
	}

	if s.metrics != nil {
		s.metrics.RecordDonationUnits(req.Units)
	}
	s.invalidateStockCaches(ctx)
	s.logger.Info("donation session recorded",
		zap.String("donor_id", donor.ID),
		zap.String("staff_id", staff.ID),
		zap.Int("units", req.Units),
		zap.String("blood_group", donor.BloodGroup))

	return &DonationSessionResult{
		DonorID:      donor.ID,
		StaffID:      staff.ID,
		Units:        req.Units,
		DonationDate: donationDate,
		ExpiryDate:   expiryDate,
		Bags:         bags,
	}, nil
}

func (s *DonationService) bagPrefix(bloodGroup string) string {
	rand := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:5]
	return fmt.Sprintf("BAG-%s-%s", bloodGroup, rand)
}

func (s *DonationService) invalidateStockCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, pattern := range []string{"dashboard:*", "stock:*"} {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("stock cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
