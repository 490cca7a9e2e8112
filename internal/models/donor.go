package models

import "time"

// Donor represents a registered blood donor.
type Donor struct {
	ID         string    `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	BirthDate  time.Time `db:"birth_date" json:"birth_date"`
	Gender     string    `db:"gender" json:"gender"`
	Phone      string    `db:"phone" json:"phone"`
	BloodGroup string    `db:"blood_group" json:"blood_group"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DonorFilter encapsulates allowed search parameters for listing donors.
type DonorFilter struct {
	Search     string
	BloodGroup string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// EligibleDonor is one row of the eligible_donors database view: donors whose
// last donation is old enough for them to donate again.
type EligibleDonor struct {
	DonorID          string     `db:"donor_id" json:"donor_id"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	BloodGroup       string     `db:"blood_group" json:"blood_group"`
	LastDonationDate *time.Time `db:"last_donation_date" json:"last_donation_date,omitempty"`
}
