package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	"github.com/withonly-sujal/bloodbank-api/internal/service"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
	"github.com/withonly-sujal/bloodbank-api/pkg/response"
)

type donorServiceMock struct {
	donors     []models.Donor
	donor      *models.Donor
	bags       []models.BloodBag
	pagination *models.Pagination
	err        error
}

func (m *donorServiceMock) List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, *models.Pagination, error) {
	return m.donors, m.pagination, m.err
}

func (m *donorServiceMock) Get(ctx context.Context, id string) (*models.Donor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.donor, nil
}

func (m *donorServiceMock) Register(ctx context.Context, req service.RegisterDonorRequest) (*models.Donor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.donor, nil
}

func (m *donorServiceMock) Bags(ctx context.Context, donorID string) ([]models.BloodBag, error) {
	return m.bags, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestDonorHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &donorServiceMock{
		donors:     []models.Donor{{ID: "donor-1", FirstName: "Asha", BloodGroup: "O+"}},
		pagination: &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1},
	}
	h := NewDonorHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/donors?bloodGroup=O%2B", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestDonorHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &donorServiceMock{donor: &models.Donor{ID: "donor-1", FirstName: "Asha"}}
	h := NewDonorHandler(mockSvc)

	payload, _ := json.Marshal(service.RegisterDonorRequest{
		FirstName:  "Asha",
		LastName:   "Rao",
		BirthDate:  time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC),
		Gender:     "F",
		Phone:      "9811111111",
		BloodGroup: "O+",
	})
	c, w := newGinContext(http.MethodPost, "/donors", payload)
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDonorHandlerRegisterInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDonorHandler(&donorServiceMock{})

	c, w := newGinContext(http.MethodPost, "/donors", []byte("{not json"))
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestDonorHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &donorServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "donor not found")}
	h := NewDonorHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/donors/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
