package models

import "time"

// Staff is a bank employee authorised to record donations.
type Staff struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Role     string `db:"role" json:"role"`
	Active   bool   `db:"active" json:"active"`
}

// DonationTransaction links a donor, the attending staff member, and one
// collected bag. Inserting a row fires the external stock trigger.
type DonationTransaction struct {
	ID         string    `db:"id" json:"id"`
	DonorID    string    `db:"donor_id" json:"donor_id"`
	StaffID    string    `db:"staff_id" json:"staff_id"`
	BagID      string    `db:"bag_id" json:"bag_id"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
