package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type donorRepository interface {
	List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, int, error)
	FindByID(ctx context.Context, id string) (*models.Donor, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, donor *models.Donor) error
}

type donorBagLister interface {
	ListByDonor(ctx context.Context, donorID string) ([]models.BloodBag, error)
}

// RegisterDonorRequest holds payload for donor registration.
type RegisterDonorRequest struct {
	FirstName  string    `json:"first_name" validate:"required"`
	LastName   string    `json:"last_name" validate:"required"`
	BirthDate  time.Time `json:"birth_date" validate:"required"`
	Gender     string    `json:"gender" validate:"required,oneof=M F O"`
	Phone      string    `json:"phone" validate:"required"`
	BloodGroup string    `json:"blood_group" validate:"required"`
}

// DonorService handles donor use-cases.
type DonorService struct {
	repo      donorRepository
	bags      donorBagLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDonorService constructs the donor service.
func NewDonorService(repo donorRepository, bags donorBagLister, validate *validator.Validate, logger *zap.Logger) *DonorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonorService{repo: repo, bags: bags, validator: validate, logger: logger}
}

// List returns donors and pagination metadata.
func (s *DonorService) List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, *models.Pagination, error) {
	if filter.BloodGroup != "" && !models.IsValidBloodGroup(filter.BloodGroup) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown blood group")
	}
	donors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donors")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return donors, pagination, nil
}

// Get returns a donor by ID.
func (s *DonorService) Get(ctx context.Context, id string) (*models.Donor, error) {
	donor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load donor")
	}
	return donor, nil
}

// Register creates a new donor record.
func (s *DonorService) Register(ctx context.Context, req RegisterDonorRequest) (*models.Donor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donor payload")
	}
	if !models.IsValidBloodGroup(req.BloodGroup) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown blood group")
	}
	exists, err := s.repo.ExistsByPhone(ctx, req.Phone)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate phone")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "phone already registered")
	}
	donor := &models.Donor{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		BirthDate:  req.BirthDate,
		Gender:     req.Gender,
		Phone:      req.Phone,
		BloodGroup: req.BloodGroup,
	}
	if err := s.repo.Create(ctx, donor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register donor")
	}
	s.logger.Info("donor registered", zap.String("donor_id", donor.ID), zap.String("blood_group", donor.BloodGroup))
	return donor, nil
}

// Bags lists all blood bags collected from a donor, newest first.
func (s *DonorService) Bags(ctx context.Context, donorID string) ([]models.BloodBag, error) {
	if _, err := s.Get(ctx, donorID); err != nil {
		return nil, err
	}
	bags, err := s.bags.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donor bags")
	}
	return bags, nil
}
