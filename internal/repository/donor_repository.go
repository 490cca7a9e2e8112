package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
)

// DonorRepository manages persistence for donor records.
type DonorRepository struct {
	db *sqlx.DB
}

// NewDonorRepository constructs a DonorRepository.
func NewDonorRepository(db *sqlx.DB) *DonorRepository {
	return &DonorRepository{db: db}
}

// List returns donors matching the provided filters.
func (r *DonorRepository) List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, int, error) {
	base := "FROM donors d"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.BloodGroup != "" {
		conditions = append(conditions, fmt.Sprintf("d.blood_group = $%d", len(args)+1))
		args = append(args, filter.BloodGroup)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(d.first_name) LIKE $%d OR LOWER(d.last_name) LIKE $%d OR d.phone LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"first_name":  "d.first_name",
		"last_name":   "d.last_name",
		"blood_group": "d.blood_group",
		"created_at":  "d.created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "d.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT d.id, d.first_name, d.last_name, d.birth_date, d.gender, d.phone, d.blood_group, d.created_at, d.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var donors []models.Donor
	if err := r.db.SelectContext(ctx, &donors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list donors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count donors: %w", err)
	}
	return donors, total, nil
}

// FindByID fetches a donor by ID.
func (r *DonorRepository) FindByID(ctx context.Context, id string) (*models.Donor, error) {
	const query = `SELECT id, first_name, last_name, birth_date, gender, phone, blood_group, created_at, updated_at
        FROM donors WHERE id = $1`
	var donor models.Donor
	if err := r.db.GetContext(ctx, &donor, query, id); err != nil {
		return nil, err
	}
	return &donor, nil
}

// ExistsByPhone checks if a donor with the given phone number exists.
func (r *DonorRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	const query = "SELECT 1 FROM donors WHERE phone = $1 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, phone); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check donor phone: %w", err)
	}
	return true, nil
}

// Create inserts a new donor record.
func (r *DonorRepository) Create(ctx context.Context, donor *models.Donor) error {
	if donor.ID == "" {
		donor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if donor.CreatedAt.IsZero() {
		donor.CreatedAt = now
	}
	donor.UpdatedAt = now
	const query = `INSERT INTO donors (id, first_name, last_name, birth_date, gender, phone, blood_group, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :birth_date, :gender, :phone, :blood_group, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, donor); err != nil {
		return fmt.Errorf("create donor: %w", err)
	}
	return nil
}
