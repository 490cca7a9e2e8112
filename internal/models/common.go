package models

// Pagination describes list metadata returned alongside collections.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// BloodGroups enumerates the eight ABO/Rh groups handled by the bank.
var BloodGroups = []string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}

// IsValidBloodGroup reports whether the provided group is one the bank stocks.
func IsValidBloodGroup(group string) bool {
	for _, g := range BloodGroups {
		if g == group {
			return true
		}
	}
	return false
}
