package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
)

// BloodBagRepository reads blood bag inventory.
type BloodBagRepository struct {
	db *sqlx.DB
}

// NewBloodBagRepository constructs a BloodBagRepository.
func NewBloodBagRepository(db *sqlx.DB) *BloodBagRepository {
	return &BloodBagRepository{db: db}
}

// FindByID fetches a bag by its identifier.
func (r *BloodBagRepository) FindByID(ctx context.Context, bagID string) (*models.BloodBag, error) {
	const query = `SELECT bag_id, blood_group, donation_date, expiry_date, status, donor_id, created_at
        FROM blood_bags WHERE bag_id = $1`
	var bag models.BloodBag
	if err := r.db.GetContext(ctx, &bag, query, bagID); err != nil {
		return nil, err
	}
	return &bag, nil
}

// ListByDonor returns every bag collected from one donor, newest first.
func (r *BloodBagRepository) ListByDonor(ctx context.Context, donorID string) ([]models.BloodBag, error) {
	const query = `SELECT bag_id, blood_group, donation_date, expiry_date, status, donor_id, created_at
        FROM blood_bags WHERE donor_id = $1 ORDER BY donation_date DESC, bag_id ASC`
	var bags []models.BloodBag
	if err := r.db.SelectContext(ctx, &bags, query, donorID); err != nil {
		return nil, fmt.Errorf("list donor bags: %w", err)
	}
	return bags, nil
}
