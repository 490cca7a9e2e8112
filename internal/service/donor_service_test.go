package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type mockDonorRepo struct {
	donors     map[string]models.Donor
	phones     map[string]bool
	lastFilter models.DonorFilter
	listTotal  int
	err        error
}

func (m *mockDonorRepo) List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	donors := make([]models.Donor, 0, len(m.donors))
	for _, d := range m.donors {
		donors = append(donors, d)
	}
	return donors, m.listTotal, nil
}

func (m *mockDonorRepo) FindByID(ctx context.Context, id string) (*models.Donor, error) {
	if d, ok := m.donors[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDonorRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return m.phones[phone], nil
}

func (m *mockDonorRepo) Create(ctx context.Context, donor *models.Donor) error {
	if m.donors == nil {
		m.donors = make(map[string]models.Donor)
	}
	if donor.ID == "" {
		donor.ID = "generated"
	}
	m.donors[donor.ID] = *donor
	return nil
}

type mockBagLister struct {
	bags map[string][]models.BloodBag
}

func (m *mockBagLister) ListByDonor(ctx context.Context, donorID string) ([]models.BloodBag, error) {
	return m.bags[donorID], nil
}

func validDonorRequest() RegisterDonorRequest {
	return RegisterDonorRequest{
		FirstName:  "Asha",
		LastName:   "Rao",
		BirthDate:  time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC),
		Gender:     "F",
		Phone:      "9811111111",
		BloodGroup: "O+",
	}
}

func TestDonorServiceRegister(t *testing.T) {
	repo := &mockDonorRepo{}
	svc := NewDonorService(repo, &mockBagLister{}, nil, nil)

	donor, err := svc.Register(context.Background(), validDonorRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, donor.ID)
	assert.Equal(t, "O+", donor.BloodGroup)
}

func TestDonorServiceRegisterDuplicatePhone(t *testing.T) {
	repo := &mockDonorRepo{phones: map[string]bool{"9811111111": true}}
	svc := NewDonorService(repo, &mockBagLister{}, nil, nil)

	_, err := svc.Register(context.Background(), validDonorRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestDonorServiceRegisterUnknownBloodGroup(t *testing.T) {
	svc := NewDonorService(&mockDonorRepo{}, &mockBagLister{}, nil, nil)

	req := validDonorRequest()
	req.BloodGroup = "Z+"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDonorServiceGetNotFound(t *testing.T) {
	svc := NewDonorService(&mockDonorRepo{}, &mockBagLister{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDonorServiceBags(t *testing.T) {
	repo := &mockDonorRepo{donors: map[string]models.Donor{"donor-1": {ID: "donor-1", BloodGroup: "A+"}}}
	bags := &mockBagLister{bags: map[string][]models.BloodBag{
		"donor-1": {{BagID: "bag-1", Status: models.BagStatusAvailable}},
	}}
	svc := NewDonorService(repo, bags, nil, nil)

	result, err := svc.Bags(context.Background(), "donor-1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "bag-1", result[0].BagID)
}
