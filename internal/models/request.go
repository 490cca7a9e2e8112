package models

import "time"

// Recipient is a patient a blood request is raised for.
type Recipient struct {
	ID                 string    `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	HospitalName       string    `db:"hospital_name" json:"hospital_name"`
	RequiredBloodGroup string    `db:"required_blood_group" json:"required_blood_group"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// FulfillmentStatus is the lifecycle of a blood request. Fulfilled and
// Rejected are terminal.
type FulfillmentStatus string

const (
	RequestStatusPending   FulfillmentStatus = "Pending"
	RequestStatusFulfilled FulfillmentStatus = "Fulfilled"
	RequestStatusRejected  FulfillmentStatus = "Rejected"
)

// BloodRequest asks the bank for a number of units of one group.
type BloodRequest struct {
	ID                string            `db:"id" json:"id"`
	RecipientID       string            `db:"recipient_id" json:"recipient_id"`
	RequestedGroup    string            `db:"requested_group" json:"requested_group"`
	UnitsRequested    int               `db:"units_requested" json:"units_requested"`
	FulfillmentStatus FulfillmentStatus `db:"fulfillment_status" json:"fulfillment_status"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	DecidedAt         *time.Time        `db:"decided_at" json:"decided_at,omitempty"`
}

// BloodRequestDetail joins a request with its recipient.
type BloodRequestDetail struct {
	BloodRequest
	RecipientName string `db:"recipient_name" json:"recipient_name"`
	HospitalName  string `db:"hospital_name" json:"hospital_name"`
}

// FulfillmentOutcome reports what a fulfillment attempt decided.
type FulfillmentOutcome struct {
	RequestID string            `json:"request_id"`
	Status    FulfillmentStatus `json:"status"`
	UnitsUsed int               `json:"units_used"`
	BagIDs    []string          `json:"bag_ids,omitempty"`
}
