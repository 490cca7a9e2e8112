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
)

func newReportMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportRepositoryAvailableUnits(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT get_available_blood_units($1)")).
		WithArgs("O-").
		WillReturnRows(sqlmock.NewRows([]string{"get_available_blood_units"}).AddRow(7))

	units, err := repo.AvailableUnits(context.Background(), "O-")
	require.NoError(t, err)
	assert.Equal(t, 7, units)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryEligibleDonors(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	last := time.Now().AddDate(0, -4, 0)
	rows := sqlmock.NewRows([]string{"donor_id", "first_name", "last_name", "blood_group", "last_donation_date"}).
		AddRow("donor-1", "Asha", "Rao", "O+", last).
		AddRow("donor-2", "Ravi", "Shah", "O+", nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM eligible_donors WHERE blood_group = $1")).
		WithArgs("O+").
		WillReturnRows(rows)

	donors, err := repo.EligibleDonors(context.Background(), "O+")
	require.NoError(t, err)
	require.Len(t, donors, 2)
	assert.NotNil(t, donors[0].LastDonationDate)
	assert.Nil(t, donors[1].LastDonationDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryDashboardCounts(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM donors")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	count, err := repo.DonorCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM blood_bags WHERE status = $1")).
		WithArgs("Available").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))
	count, err = repo.AvailableBagCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
