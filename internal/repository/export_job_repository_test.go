package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
)

func newExportJobMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestExportJobRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newExportJobMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO export_jobs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ExportJob{
		Type:   models.ExportTypeDonors,
		Params: models.ExportJobParams{Format: models.ExportFormatCSV, BloodGroup: "O+"},
	}
	require.NoError(t, repo.Create(context.Background(), job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ExportStatusQueued, job.Status)

	rows := sqlmock.NewRows([]string{"id", "type", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}).
		AddRow(job.ID, "donors", `{"format":"csv","bloodGroup":"O+"}`, "QUEUED", 0, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM export_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, found.Params.Format)
	assert.Equal(t, "O+", found.Params.BloodGroup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newExportJobMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "type", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", "stock", `{"format":"pdf"}`, "QUEUED", 0, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status IN ($1, $2) ORDER BY created_at ASC")).
		WithArgs(models.ExportStatusQueued, models.ExportStatusProcessing).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.ExportTypeStock, jobs[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newExportJobMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE export_jobs")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	url := "/api/v1/exports/job-1/download?token=abc"
	job := &models.ExportJob{
		ID:         "job-1",
		Type:       models.ExportTypeDonors,
		Status:     models.ExportStatusFinished,
		Progress:   100,
		ResultURL:  &url,
		FinishedAt: &now,
	}
	require.NoError(t, repo.Update(context.Background(), job))
	assert.NoError(t, mock.ExpectationsWereMet())
}
