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

func newDonorMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDonorRepositoryList(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "birth_date", "gender", "phone", "blood_group", "created_at", "updated_at"}).
		AddRow("donor-1", "Asha", "Rao", time.Now(), "F", "9811111111", "O+", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT d.id, d.first_name, d.last_name, d.birth_date, d.gender, d.phone, d.blood_group, d.created_at, d.updated_at\n        FROM donors d WHERE 1=1 ORDER BY d.created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM donors d WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	donors, total, err := repo.List(context.Background(), models.DonorFilter{})
	require.NoError(t, err)
	assert.Len(t, donors, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepositoryListByBloodGroup(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "birth_date", "gender", "phone", "blood_group", "created_at", "updated_at"}).
		AddRow("donor-2", "Ravi", "Shah", time.Now(), "M", "9822222222", "AB-", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM donors d WHERE 1=1 AND d.blood_group = $1")).
		WithArgs("AB-").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM donors d WHERE 1=1 AND d.blood_group = $1")).
		WithArgs("AB-").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	donors, total, err := repo.List(context.Background(), models.DonorFilter{BloodGroup: "AB-"})
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "AB-", donors[0].BloodGroup)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	mock.ExpectExec("INSERT INTO donors").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	donor := &models.Donor{FirstName: "Asha", LastName: "Rao", BirthDate: time.Now(), Gender: "F", Phone: "9811111111", BloodGroup: "O+"}
	err := repo.Create(context.Background(), donor)
	require.NoError(t, err)
	assert.NotEmpty(t, donor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepositoryExistsByPhone(t *testing.T) {
	db, mock, cleanup := newDonorMock(t)
	defer cleanup()
	repo := NewDonorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM donors WHERE phone = $1 LIMIT 1")).
		WithArgs("9811111111").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	exists, err := repo.ExistsByPhone(context.Background(), "9811111111")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM donors WHERE phone = $1 LIMIT 1")).
		WithArgs("9800000000").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	exists, err = repo.ExistsByPhone(context.Background(), "9800000000")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
