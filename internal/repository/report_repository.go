package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
)

// ReportRepository exposes read-only reporting queries backed by the stock
// function and the eligibility view.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AvailableUnits returns the number of available bags for one blood group via
// the get_available_blood_units database function.
func (r *ReportRepository) AvailableUnits(ctx context.Context, bloodGroup string) (int, error) {
	const query = `SELECT get_available_blood_units($1)`
	var units int
	if err := r.db.GetContext(ctx, &units, query, bloodGroup); err != nil {
		return 0, fmt.Errorf("stock for %s: %w", bloodGroup, err)
	}
	return units, nil
}

// EligibleDonors reads the eligible_donors view, optionally filtered by group.
func (r *ReportRepository) EligibleDonors(ctx context.Context, bloodGroup string) ([]models.EligibleDonor, error) {
	query := `SELECT donor_id, first_name, last_name, blood_group, last_donation_date FROM eligible_donors`
	args := []interface{}{}
	if bloodGroup != "" {
		query += ` WHERE blood_group = $1`
		args = append(args, bloodGroup)
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	var donors []models.EligibleDonor
	if err := r.db.SelectContext(ctx, &donors, query, args...); err != nil {
		return nil, fmt.Errorf("list eligible donors: %w", err)
	}
	return donors, nil
}

// DonorCount returns the total number of registered donors.
func (r *ReportRepository) DonorCount(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM donors`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count donors: %w", err)
	}
	return count, nil
}

// AvailableBagCount returns the total number of available bags across groups.
func (r *ReportRepository) AvailableBagCount(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM blood_bags WHERE status = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, models.BagStatusAvailable); err != nil {
		return 0, fmt.Errorf("count available bags: %w", err)
	}
	return count, nil
}
