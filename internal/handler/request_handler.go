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

type requestService interface {
	Create(ctx context.Context, req service.CreateBloodRequest) (*models.BloodRequestDetail, *models.FulfillmentOutcome, error)
	Get(ctx context.Context, id string) (*models.BloodRequestDetail, error)
	Fulfill(ctx context.Context, requestID string) (*models.FulfillmentOutcome, error)
}

// RequestHandler exposes blood request endpoints.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler constructs the handler.
func NewRequestHandler(service requestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RequestDecision combines the decided request with its allocation outcome.
type RequestDecision struct {
	Request *models.BloodRequestDetail `json:"request"`
	Outcome *models.FulfillmentOutcome `json:"outcome"`
}

// Create godoc
// @Summary Register a blood request and decide it immediately
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body service.CreateBloodRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req service.CreateBloodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload"))
		return
	}
	detail, outcome, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, RequestDecision{Request: detail, Outcome: outcome})
}

// Get godoc
// @Summary Blood request details
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Fulfill godoc
// @Summary Decide a pending blood request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/fulfill [post]
func (h *RequestHandler) Fulfill(c *gin.Context) {
	outcome, err := h.service.Fulfill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, RequestDecision{Request: detail, Outcome: outcome}, nil)
}
