package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withonly-sujal/bloodbank-api/internal/dto"
	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type reportServiceMock struct {
	report   *dto.StockReportResponse
	eligible []models.EligibleDonor
	cacheHit bool
	err      error
}

func (m *reportServiceMock) Stock(ctx context.Context, bloodGroup string) (*dto.StockReportResponse, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	return m.report, m.cacheHit, nil
}

func (m *reportServiceMock) EligibleDonors(ctx context.Context, bloodGroup string) ([]models.EligibleDonor, error) {
	return m.eligible, m.err
}

func TestReportHandlerStock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		report: &dto.StockReportResponse{
			Levels:     []dto.StockLevel{{BloodGroup: "O+", AvailableUnits: 4}},
			TotalUnits: 4,
		},
		cacheHit: true,
	}
	h := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports/stock?bloodGroup=O%2B", nil)
	h.Stock(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestReportHandlerStockValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "unknown blood group")}
	h := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports/stock?bloodGroup=Z", nil)
	h.Stock(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerEligibleDonors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{eligible: []models.EligibleDonor{{DonorID: "donor-1", BloodGroup: "A-"}}}
	h := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports/eligible-donors", nil)
	h.EligibleDonors(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.NotNil(t, envelope.Data)
}
