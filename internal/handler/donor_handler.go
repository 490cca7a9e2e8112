package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	"github.com/withonly-sujal/bloodbank-api/internal/service"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
	"github.com/withonly-sujal/bloodbank-api/pkg/response"
)

type donorService interface {
	List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Donor, error)
	Register(ctx context.Context, req service.RegisterDonorRequest) (*models.Donor, error)
	Bags(ctx context.Context, donorID string) ([]models.BloodBag, error)
}

// DonorHandler exposes donor endpoints.
type DonorHandler struct {
	service donorService
}

// NewDonorHandler constructs the handler.
func NewDonorHandler(service donorService) *DonorHandler {
	return &DonorHandler{service: service}
}

// List godoc
// @Summary List registered donors
// @Tags Donors
// @Produce json
// @Param search query string false "Name or phone search"
// @Param bloodGroup query string false "Blood group filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /donors [get]
func (h *DonorHandler) List(c *gin.Context) {
	filter := models.DonorFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		BloodGroup: strings.TrimSpace(c.Query("bloodGroup")),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "pageSize", 20),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
	donors, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors, pagination)
}

// Get godoc
// @Summary Donor details
// @Tags Donors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 200 {object} response.Envelope
// @Router /donors/{id} [get]
func (h *DonorHandler) Get(c *gin.Context) {
	donor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donor, nil)
}

// Register godoc
// @Summary Register a new donor
// @Tags Donors
// @Accept json
// @Produce json
// @Param payload body service.RegisterDonorRequest true "Donor payload"
// @Success 201 {object} response.Envelope
// @Router /donors [post]
func (h *DonorHandler) Register(c *gin.Context) {
	var req service.RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donor payload"))
		return
	}
	donor, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, donor)
}

// Bags godoc
// @Summary Blood bags collected from a donor
// @Tags Donors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 200 {object} response.Envelope
// @Router /donors/{id}/bags [get]
func (h *DonorHandler) Bags(c *gin.Context) {
	bags, err := h.service.Bags(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bags, nil)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
