package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	"github.com/withonly-sujal/bloodbank-api/internal/service"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
	"github.com/withonly-sujal/bloodbank-api/pkg/response"
)

type donationService interface {
	Staff(ctx context.Context) ([]models.Staff, error)
	Record(ctx context.Context, req service.RecordDonationRequest) (*service.DonationSessionResult, error)
}

// DonationHandler exposes donation intake endpoints.
type DonationHandler struct {
	service donationService
}

// NewDonationHandler constructs the handler.
func NewDonationHandler(service donationService) *DonationHandler {
	return &DonationHandler{service: service}
}

// Staff godoc
// @Summary Active staff available to record sessions
// @Tags Donations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /donations/staff [get]
func (h *DonationHandler) Staff(c *gin.Context) {
	staff, err := h.service.Staff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff, nil)
}

// Record godoc
// @Summary Record a donation session
// @Tags Donations
// @Accept json
// @Produce json
// @Param payload body service.RecordDonationRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /donations [post]
func (h *DonationHandler) Record(c *gin.Context) {
	var req service.RecordDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donation payload"))
		return
	}
	result, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
