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

type mockRequestRepo struct {
	requests   map[string]*models.BloodRequestDetail
	stock      int
	fulfillErr error
}

func (m *mockRequestRepo) CreateWithRecipient(ctx context.Context, recipient *models.Recipient, request *models.BloodRequest) error {
	recipient.ID = "recipient-1"
	request.ID = "req-1"
	request.RecipientID = recipient.ID
	request.FulfillmentStatus = models.RequestStatusPending
	request.CreatedAt = time.Now().UTC()
	if m.requests == nil {
		m.requests = make(map[string]*models.BloodRequestDetail)
	}
	m.requests[request.ID] = &models.BloodRequestDetail{
		BloodRequest:  *request,
		RecipientName: recipient.Name,
		HospitalName:  recipient.HospitalName,
	}
	return nil
}

func (m *mockRequestRepo) FindDetailByID(ctx context.Context, id string) (*models.BloodRequestDetail, error) {
	if detail, ok := m.requests[id]; ok {
		return detail, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRequestRepo) Fulfill(ctx context.Context, requestID string) (*models.FulfillmentOutcome, error) {
	if m.fulfillErr != nil {
		return nil, m.fulfillErr
	}
	detail, ok := m.requests[requestID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if detail.FulfillmentStatus != models.RequestStatusPending {
		return nil, appErrors.ErrRequestDecided
	}
	outcome := &models.FulfillmentOutcome{RequestID: requestID}
	now := time.Now().UTC()
	if m.stock >= detail.UnitsRequested {
		outcome.Status = models.RequestStatusFulfilled
		outcome.UnitsUsed = detail.UnitsRequested
		m.stock -= detail.UnitsRequested
	} else {
		outcome.Status = models.RequestStatusRejected
	}
	detail.FulfillmentStatus = outcome.Status
	detail.DecidedAt = &now
	return outcome, nil
}

func TestRequestServiceCreateFulfilled(t *testing.T) {
	repo := &mockRequestRepo{stock: 5}
	svc := NewRequestService(repo, nil, nil, nil, nil)

	detail, outcome, err := svc.Create(context.Background(), CreateBloodRequest{
		RecipientName:  "Meera Iyer",
		HospitalName:   "City Hospital",
		BloodGroup:     "A+",
		UnitsRequested: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusFulfilled, outcome.Status)
	assert.Equal(t, 2, outcome.UnitsUsed)
	assert.Equal(t, models.RequestStatusFulfilled, detail.FulfillmentStatus)
	assert.NotNil(t, detail.DecidedAt)
	assert.Equal(t, 3, repo.stock)
}

func TestRequestServiceCreateRejected(t *testing.T) {
	repo := &mockRequestRepo{stock: 1}
	svc := NewRequestService(repo, nil, nil, nil, nil)

	detail, outcome, err := svc.Create(context.Background(), CreateBloodRequest{
		RecipientName:  "Meera Iyer",
		HospitalName:   "City Hospital",
		BloodGroup:     "A+",
		UnitsRequested: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, outcome.Status)
	assert.Zero(t, outcome.UnitsUsed)
	assert.Equal(t, models.RequestStatusRejected, detail.FulfillmentStatus)
	assert.Equal(t, 1, repo.stock)
}

func TestRequestServiceCreateUnknownGroup(t *testing.T) {
	svc := NewRequestService(&mockRequestRepo{}, nil, nil, nil, nil)

	_, _, err := svc.Create(context.Background(), CreateBloodRequest{
		RecipientName:  "Meera Iyer",
		HospitalName:   "City Hospital",
		BloodGroup:     "Q-",
		UnitsRequested: 1,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRequestServiceFulfillAlreadyDecided(t *testing.T) {
	repo := &mockRequestRepo{stock: 5}
	svc := NewRequestService(repo, nil, nil, nil, nil)

	_, _, err := svc.Create(context.Background(), CreateBloodRequest{
		RecipientName:  "Meera Iyer",
		HospitalName:   "City Hospital",
		BloodGroup:     "A+",
		UnitsRequested: 1,
	})
	require.NoError(t, err)

	_, err = svc.Fulfill(context.Background(), "req-1")
	require.ErrorIs(t, err, appErrors.ErrRequestDecided)
}

func TestRequestServiceFulfillNotFound(t *testing.T) {
	svc := NewRequestService(&mockRequestRepo{}, nil, nil, nil, nil)

	_, err := svc.Fulfill(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
