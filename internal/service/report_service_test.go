package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

type mockReportRepo struct {
	units    map[string]int
	eligible []models.EligibleDonor
	calls    []string
}

func (m *mockReportRepo) AvailableUnits(ctx context.Context, bloodGroup string) (int, error) {
	m.calls = append(m.calls, bloodGroup)
	return m.units[bloodGroup], nil
}

func (m *mockReportRepo) EligibleDonors(ctx context.Context, bloodGroup string) ([]models.EligibleDonor, error) {
	if bloodGroup == "" {
		return m.eligible, nil
	}
	filtered := make([]models.EligibleDonor, 0)
	for _, donor := range m.eligible {
		if donor.BloodGroup == bloodGroup {
			filtered = append(filtered, donor)
		}
	}
	return filtered, nil
}

func TestReportServiceStockAllGroups(t *testing.T) {
	repo := &mockReportRepo{units: map[string]int{"O+": 4, "AB-": 1}}
	svc := NewReportService(repo, nil, nil, nil, ReportServiceConfig{})

	report, cached, err := svc.Stock(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, report.Levels, len(models.BloodGroups))
	assert.Len(t, repo.calls, len(models.BloodGroups))
	assert.Equal(t, 5, report.TotalUnits)
}

func TestReportServiceStockSingleGroup(t *testing.T) {
	repo := &mockReportRepo{units: map[string]int{"B-": 2}}
	svc := NewReportService(repo, nil, nil, nil, ReportServiceConfig{})

	report, _, err := svc.Stock(context.Background(), "B-")
	require.NoError(t, err)
	require.Len(t, report.Levels, 1)
	assert.Equal(t, "B-", report.Levels[0].BloodGroup)
	assert.Equal(t, 2, report.Levels[0].AvailableUnits)
	assert.Equal(t, 2, report.TotalUnits)
}

func TestReportServiceStockUnknownGroup(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, nil, nil, nil, ReportServiceConfig{})

	_, _, err := svc.Stock(context.Background(), "Z+")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReportServiceEligibleDonors(t *testing.T) {
	last := time.Now().AddDate(0, -5, 0)
	repo := &mockReportRepo{eligible: []models.EligibleDonor{
		{DonorID: "donor-1", BloodGroup: "O+", LastDonationDate: &last},
		{DonorID: "donor-2", BloodGroup: "A-"},
	}}
	svc := NewReportService(repo, nil, nil, nil, ReportServiceConfig{})

	all, err := svc.EligibleDonors(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.EligibleDonors(context.Background(), "A-")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "donor-2", filtered[0].DonorID)
}
