package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
	"github.com/withonly-sujal/bloodbank-api/pkg/export"
	"github.com/withonly-sujal/bloodbank-api/pkg/storage"
)

type exportDatasetSource interface {
	List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, int, error)
}

type exportReportSource interface {
	AvailableUnits(ctx context.Context, bloodGroup string) (int, error)
	EligibleDonors(ctx context.Context, bloodGroup string) ([]models.EligibleDonor, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds datasets and persists rendered export files.
type ExportService struct {
	donors  exportDatasetSource
	reports exportReportSource
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(donors exportDatasetSource, reports exportReportSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		donors:  donors,
		reports: reports,
		storage: files,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/exports/download/%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	groupPart := sanitizeFilename(job.Params.BloodGroup)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), groupPart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "+", "pos", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ExportTypeDonors:
		return s.buildDonorDataset(ctx, job.Params)
	case models.ExportTypeStock:
		return s.buildStockDataset(ctx, job.Params)
	case models.ExportTypeEligibleDonors:
		return s.buildEligibleDonorDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

func (s *ExportService) buildDonorDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	filter := models.DonorFilter{BloodGroup: params.BloodGroup, PageSize: 100}
	rows := make([][]string, 0)
	for page := 1; ; page++ {
		filter.Page = page
		donors, total, err := s.donors.List(ctx, filter)
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, donor := range donors {
			rows = append(rows, []string{
				donor.ID,
				donor.FirstName,
				donor.LastName,
				donor.BloodGroup,
				donor.Gender,
				donor.Phone,
				donor.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		if len(rows) >= total || len(donors) == 0 {
			break
		}
	}
	dataset := export.Dataset{
		Headers: []string{"ID", "First Name", "Last Name", "Blood Group", "Gender", "Phone", "Registered At"},
		Rows:    rows,
	}
	return dataset, datasetTitle("Donor Roster", params.BloodGroup), nil
}

func (s *ExportService) buildStockDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	groups := models.BloodGroups
	if params.BloodGroup != "" {
		groups = []string{params.BloodGroup}
	}
	rows := make([][]string, 0, len(groups))
	for _, group := range groups {
		units, err := s.reports.AvailableUnits(ctx, group)
		if err != nil {
			return export.Dataset{}, "", err
		}
		rows = append(rows, []string{group, fmt.Sprintf("%d", units)})
	}
	dataset := export.Dataset{
		Headers: []string{"Blood Group", "Available Units"},
		Rows:    rows,
	}
	return dataset, datasetTitle("Stock Report", params.BloodGroup), nil
}

func (s *ExportService) buildEligibleDonorDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	donors, err := s.reports.EligibleDonors(ctx, params.BloodGroup)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([][]string, 0, len(donors))
	for _, donor := range donors {
		lastDonation := ""
		if donor.LastDonationDate != nil {
			lastDonation = donor.LastDonationDate.UTC().Format("2006-01-02")
		}
		rows = append(rows, []string{donor.DonorID, donor.FirstName, donor.LastName, donor.BloodGroup, lastDonation})
	}
	dataset := export.Dataset{
		Headers: []string{"Donor ID", "First Name", "Last Name", "Blood Group", "Last Donation"},
		Rows:    rows,
	}
	return dataset, datasetTitle("Eligible Donors", params.BloodGroup), nil
}

func datasetTitle(base, bloodGroup string) string {
	if bloodGroup == "" {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, bloodGroup)
}
