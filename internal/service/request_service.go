package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type requestRepository interface {
	CreateWithRecipient(ctx context.Context, recipient *models.Recipient, request *models.BloodRequest) error
	FindDetailByID(ctx context.Context, id string) (*models.BloodRequestDetail, error)
	Fulfill(ctx context.Context, requestID string) (*models.FulfillmentOutcome, error)
}

// CreateBloodRequest holds payload for registering a blood request.
type CreateBloodRequest struct {
	RecipientName  string `json:"recipient_name" validate:"required"`
	HospitalName   string `json:"hospital_name" validate:"required"`
	BloodGroup     string `json:"blood_group" validate:"required"`
	UnitsRequested int    `json:"units_requested" validate:"required,min=1"`
}

// RequestService registers blood requests and decides their fulfillment.
type RequestService struct {
	repo      requestRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs the request service.
func NewRequestService(repo requestRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Create registers the recipient and a pending request, then immediately runs
// fulfillment. The returned detail reflects the decided request.
func (s *RequestService) Create(ctx context.Context, req CreateBloodRequest) (*models.BloodRequestDetail, *models.FulfillmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}
	if !models.IsValidBloodGroup(req.BloodGroup) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown blood group")
	}

	recipient := &models.Recipient{
		Name:               req.RecipientName,
		HospitalName:       req.HospitalName,
		RequiredBloodGroup: req.BloodGroup,
	}
	request := &models.BloodRequest{
		RequestedGroup: req.BloodGroup,
		UnitsRequested: req.UnitsRequested,
	}
	if err := s.repo.CreateWithRecipient(ctx, recipient, request); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register blood request")
	}

	outcome, err := s.Fulfill(ctx, request.ID)
	if err != nil {
		return nil, nil, err
	}
	detail, err := s.Get(ctx, request.ID)
	if err != nil {
		return nil, nil, err
	}
	return detail, outcome, nil
}

// Get returns a request with its recipient details.
func (s *RequestService) Get(ctx context.Context, id string) (*models.BloodRequestDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blood request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blood request")
	}
	return detail, nil
}

// Fulfill decides a pending request. A decided request stays decided.
func (s *RequestService) Fulfill(ctx context.Context, requestID string) (*models.FulfillmentOutcome, error) {
	outcome, err := s.repo.Fulfill(ctx, requestID)
	if err != nil {
		if errors.Is(err, appErrors.ErrRequestDecided) {
			return nil, err
		}
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blood request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fulfill blood request")
	}

	if s.metrics != nil {
		s.metrics.RecordRequestOutcome(outcome.Status)
	}
	if s.cache != nil {
		for _, pattern := range []string{"dashboard:*", "stock:*"} {
			if err := s.cache.Invalidate(ctx, pattern); err != nil {
				s.logger.Warn("stock cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
			}
		}
	}
	s.logger.Info("blood request decided",
		zap.String("request_id", requestID),
		zap.String("outcome", string(outcome.Status)),
		zap.Int("units_used", outcome.UnitsUsed))
	return outcome, nil
}
