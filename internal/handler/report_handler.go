package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/withonly-sujal/bloodbank-api/internal/dto"
	"github.com/withonly-sujal/bloodbank-api/internal/middleware"
	"github.com/withonly-sujal/bloodbank-api/internal/models"
	"github.com/withonly-sujal/bloodbank-api/pkg/response"
)

type reportService interface {
	Stock(ctx context.Context, bloodGroup string) (*dto.StockReportResponse, bool, error)
	EligibleDonors(ctx context.Context, bloodGroup string) ([]models.EligibleDonor, error)
}

// ReportHandler exposes stock and eligibility reporting endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Stock godoc
// @Summary Available units per blood group
// @Tags Reports
// @Produce json
// @Param bloodGroup query string false "Restrict to one blood group"
// @Success 200 {object} response.Envelope
// @Router /reports/stock [get]
func (h *ReportHandler) Stock(c *gin.Context) {
	bloodGroup := strings.TrimSpace(c.Query("bloodGroup"))
	start := time.Now()
	report, cacheHit, err := h.service.Stock(c.Request.Context(), bloodGroup)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMetaValue(c, "processing_time_ms", time.Since(start).Milliseconds())
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}

// EligibleDonors godoc
// @Summary Donors eligible to donate again
// @Tags Reports
// @Produce json
// @Param bloodGroup query string false "Restrict to one blood group"
// @Success 200 {object} response.Envelope
// @Router /reports/eligible-donors [get]
func (h *ReportHandler) EligibleDonors(c *gin.Context) {
	donors, err := h.service.EligibleDonors(c.Request.Context(), strings.TrimSpace(c.Query("bloodGroup")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors, nil)
}
