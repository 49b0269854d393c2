package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

func TestWalletPayOrder_Success(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWalletRepository(db)
	payment := &domain.Payment{
		OrderID: 10,
		UserID:  2,
		Amount:  -650000,
		Type:    domain.PaymentTypeRentalPayment,
		Method:  domain.PaymentMethodWallet,
		Status:  domain.PaymentRecordStatusCompleted,
	}

	dbmock.ExpectBegin()
	dbmock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET available = available - $1, frozen = frozen + $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(55)))
	dbmock.ExpectCommit()

	err = repo.PayOrder(context.Background(), 2, 650000, 150000, payment)

	assert.NoError(t, err)
	assert.Equal(t, int32(55), payment.ID)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestWalletPayOrder_InsufficientBalance(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWalletRepository(db)

	// The conditional debit matches no row when available < total; the
	// transaction rolls back and no payment record is written.
	dbmock.ExpectBegin()
	dbmock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET available = available - $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbmock.ExpectRollback()

	err = repo.PayOrder(context.Background(), 2, 650000, 150000, &domain.Payment{})

	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestWalletReleaseDeposit(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWalletRepository(db)

	dbmock.ExpectBegin()
	dbmock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET frozen = frozen - $1, available = available + $2`)).
		WithArgs(int64(150000), int64(100000), sqlmock.AnyArg(), int32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(56)))
	dbmock.ExpectCommit()

	err = repo.ReleaseDeposit(context.Background(), 2, 150000, 100000, &domain.Payment{})

	assert.NoError(t, err)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestWalletCredit_WithoutPaymentRecord(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewWalletRepository(db)

	dbmock.ExpectBegin()
	dbmock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET available = available + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectCommit()

	err = repo.Credit(context.Background(), 1, 500000, nil)

	assert.NoError(t, err)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}
