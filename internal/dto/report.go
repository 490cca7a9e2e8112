package dto

import "github.com/withonly-sujal/bloodbank-api/internal/models"

// StockLevel is the available unit count for one blood group.
type StockLevel struct {
	BloodGroup     string `json:"blood_group"`
	AvailableUnits int    `json:"available_units"`
}

// StockReportResponse aggregates per-group availability.
type StockReportResponse struct {
	Levels     []StockLevel `json:"levels"`
	TotalUnits int          `json:"total_units"`
}

// ExportRequest queues an asynchronous dataset export.
type ExportRequest struct {
	Type       models.ExportType   `json:"type"`
	Format     models.ExportFormat `json:"format"`
	BloodGroup string              `json:"blood_group,omitempty"`
}

// ExportJobResponse acknowledges a queued export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse reports job progress and, once finished, the signed
// download URL.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
