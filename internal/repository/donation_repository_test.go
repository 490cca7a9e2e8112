package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withonly-sujal/bloodbank-api/internal/models"
)

func newDonationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sessionFixture(units int) ([]models.BloodBag, []models.DonationTransaction) {
	now := time.Now().UTC()
	bags := make([]models.BloodBag, 0, units)
	txns := make([]models.DonationTransaction, 0, units)
	for i := 0; i < units; i++ {
		bagID := "BAG-O+-TEST1-" + string(rune('1'+i))
		bags = append(bags, models.BloodBag{
			BagID:        bagID,
			BloodGroup:   "O+",
			DonationDate: now,
			ExpiryDate:   now.AddDate(1, 0, 0),
			DonorID:      "donor-1",
		})
		txns = append(txns, models.DonationTransaction{
			DonorID: "donor-1",
			StaffID: "staff-1",
			BagID:   bagID,
		})
	}
	return bags, txns
}

func TestDonationRepositoryRecordSession(t *testing.T) {
	db, mock, cleanup := newDonationMock(t)
	defer cleanup()
	repo := NewDonationRepository(db)

	bags, txns := sessionFixture(2)
	mock.ExpectBegin()
	for range bags {
		mock.ExpectExec("INSERT INTO blood_bags").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO donation_transactions").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	err := repo.RecordSession(context.Background(), bags, txns)
	require.NoError(t, err)
	assert.Equal(t, models.BagStatusQuarantined, bags[0].Status)
	assert.NotEmpty(t, txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepositoryRecordSessionRollsBack(t *testing.T) {
	db, mock, cleanup := newDonationMock(t)
	defer cleanup()
	repo := NewDonationRepository(db)

	bags, txns := sessionFixture(2)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO blood_bags").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO donation_transactions").WillReturnError(errors.New("trigger failed"))
	mock.ExpectRollback()

	err := repo.RecordSession(context.Background(), bags, txns)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepositoryRecordSessionMismatch(t *testing.T) {
	db, _, cleanup := newDonationMock(t)
	defer cleanup()
	repo := NewDonationRepository(db)

	bags, txns := sessionFixture(2)
	err := repo.RecordSession(context.Background(), bags, txns[:1])
	require.Error(t, err)
}

func TestDonationRepositoryCountByDonor(t *testing.T) {
	db, mock, cleanup := newDonationMock(t)
	defer cleanup()
	repo := NewDonationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM donation_transactions WHERE donor_id = $1")).
		WithArgs("donor-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByDonor(context.Background(), "donor-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
