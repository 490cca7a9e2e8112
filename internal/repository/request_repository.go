package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

// RequestRepository persists recipients and blood requests and owns the
// fulfillment transaction.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// CreateWithRecipient inserts the recipient and its pending request in one
// database transaction.
func (r *RequestRepository) CreateWithRecipient(ctx context.Context, recipient *models.Recipient, request *models.BloodRequest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if recipient.ID == "" {
		recipient.ID = uuid.NewString()
	}
	if recipient.CreatedAt.IsZero() {
		recipient.CreatedAt = now
	}
	const recipientQuery = `INSERT INTO recipients (id, name, hospital_name, required_blood_group, created_at)
        VALUES (:id, :name, :hospital_name, :required_blood_group, :created_at)`
	if _, err := tx.NamedExecContext(ctx, recipientQuery, recipient); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert recipient: %w", err)
	}

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	request.RecipientID = recipient.ID
	if request.FulfillmentStatus == "" {
		request.FulfillmentStatus = models.RequestStatusPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	const requestQuery = `INSERT INTO blood_requests (id, recipient_id, requested_group, units_requested, fulfillment_status, created_at)
        VALUES (:id, :recipient_id, :requested_group, :units_requested, :fulfillment_status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, requestQuery, request); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert blood request: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit blood request: %w", err)
	}
	return nil
}

// FindDetailByID fetches a request joined with its recipient.
func (r *RequestRepository) FindDetailByID(ctx context.Context, id string) (*models.BloodRequestDetail, error) {
	const query = `SELECT br.id, br.recipient_id, br.requested_group, br.units_requested, br.fulfillment_status, br.created_at, br.decided_at,
        rc.name AS recipient_name, rc.hospital_name
        FROM blood_requests br
        JOIN recipients rc ON rc.id = br.recipient_id
        WHERE br.id = $1`
	var detail models.BloodRequestDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Fulfill runs the allocation transaction for a pending request: lock the
// request row, greedily pick the earliest-expiring available bags of the
// requested group, and either consume exactly the requested number of units
// or reject the request. Fulfilled and Rejected are terminal; attempting to
// decide a request twice returns ErrRequestDecided.
func (r *RequestRepository) Fulfill(ctx context.Context, requestID string) (*models.FulfillmentOutcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	const requestQuery = `SELECT id, recipient_id, requested_group, units_requested, fulfillment_status, created_at, decided_at
        FROM blood_requests WHERE id = $1 FOR UPDATE`
	var request models.BloodRequest
	if err := tx.GetContext(ctx, &request, requestQuery, requestID); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if request.FulfillmentStatus != models.RequestStatusPending {
		tx.Rollback() //nolint:errcheck
		return nil, appErrors.ErrRequestDecided
	}

	const bagsQuery = `SELECT bag_id FROM blood_bags
        WHERE blood_group = $1 AND status = $2
        ORDER BY expiry_date ASC, bag_id ASC
        LIMIT $3
        FOR UPDATE`
	var bagIDs []string
	if err := tx.SelectContext(ctx, &bagIDs, bagsQuery, request.RequestedGroup, models.BagStatusAvailable, request.UnitsRequested); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("select available bags: %w", err)
	}

	now := time.Now().UTC()
	outcome := &models.FulfillmentOutcome{RequestID: requestID}

	if len(bagIDs) >= request.UnitsRequested {
		placeholders := make([]string, len(bagIDs))
		args := make([]interface{}, 0, len(bagIDs)+1)
		args = append(args, models.BagStatusUsed)
		for i, id := range bagIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+2)
			args = append(args, id)
		}
		updateBags := fmt.Sprintf("UPDATE blood_bags SET status = $1 WHERE bag_id IN (%s)", strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, updateBags, args...); err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("mark bags used: %w", err)
		}
		outcome.Status = models.RequestStatusFulfilled
		outcome.UnitsUsed = len(bagIDs)
		outcome.BagIDs = bagIDs
	} else {
		outcome.Status = models.RequestStatusRejected
	}

	const updateRequest = `UPDATE blood_requests SET fulfillment_status = $2, decided_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateRequest, requestID, outcome.Status, now); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("update request status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit fulfillment: %w", err)
	}
	return outcome, nil
}
