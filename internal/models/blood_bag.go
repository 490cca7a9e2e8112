package models

import "time"

// BagStatus tracks a blood bag through its lifecycle. The transition from
// Quarantined to Available is performed by a database trigger on donation
// transaction insert, never by application code.
type BagStatus string

const (
	BagStatusQuarantined BagStatus = "Quarantined"
	BagStatusAvailable   BagStatus = "Available"
	BagStatusUsed        BagStatus = "Used"
)

// BloodBag is one collected unit of blood.
type BloodBag struct {
	BagID        string    `db:"bag_id" json:"bag_id"`
	BloodGroup   string    `db:"blood_group" json:"blood_group"`
	DonationDate time.Time `db:"donation_date" json:"donation_date"`
	ExpiryDate   time.Time `db:"expiry_date" json:"expiry_date"`
	Status       BagStatus `db:"status" json:"status"`
	DonorID      string    `db:"donor_id" json:"donor_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
