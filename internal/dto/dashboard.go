package dto

// DashboardStats is the headline summary shown on the landing dashboard.
type DashboardStats struct {
	DonorCount int `json:"donor_count"`
	StockCount int `json:"stock_count"`
}
