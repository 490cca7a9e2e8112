package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
)

// DonationRepository persists donation sessions: one blood bag plus one
// donation transaction per collected unit.
type DonationRepository struct {
	db *sqlx.DB
}

// NewDonationRepository constructs a DonationRepository.
func NewDonationRepository(db *sqlx.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// RecordSession inserts every bag and its linking transaction inside a single
// database transaction. Each transaction insert fires the external stock
// trigger, so a failed unit rolls the whole session back.
func (r *DonationRepository) RecordSession(ctx context.Context, bags []models.BloodBag, txns []models.DonationTransaction) error {
	if len(bags) != len(txns) {
		return fmt.Errorf("record session: %d bags for %d transactions", len(bags), len(txns))
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range bags {
		if bags[i].Status == "" {
			bags[i].Status = models.BagStatusQuarantined
		}
		if bags[i].CreatedAt.IsZero() {
			bags[i].CreatedAt = now
		}
		const bagQuery = `INSERT INTO blood_bags (bag_id, blood_group, donation_date, expiry_date, status, donor_id, created_at)
                VALUES (:bag_id, :blood_group, :donation_date, :expiry_date, :status, :donor_id, :created_at)`
		if _, err := tx.NamedExecContext(ctx, bagQuery, bags[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert blood bag: %w", err)
		}

		if txns[i].ID == "" {
			txns[i].ID = uuid.NewString()
		}
		if txns[i].RecordedAt.IsZero() {
			txns[i].RecordedAt = now
		}
		const txnQuery = `INSERT INTO donation_transactions (id, donor_id, staff_id, bag_id, recorded_at)
                VALUES (:id, :donor_id, :staff_id, :bag_id, :recorded_at)`
		if _, err := tx.NamedExecContext(ctx, txnQuery, txns[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert donation transaction: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit donation session: %w", err)
	}
	return nil
}

// CountByDonor returns the number of recorded donation transactions for a donor.
func (r *DonationRepository) CountByDonor(ctx context.Context, donorID string) (int, error) {
	const query = `SELECT COUNT(*) FROM donation_transactions WHERE donor_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, donorID); err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return count, nil
}
