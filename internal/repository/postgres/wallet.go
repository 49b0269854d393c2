package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) CreateForUser(ctx context.Context, userID int32) error {
	query := `INSERT INTO wallets (user_id, available, frozen, updated_on) VALUES ($1, 0, 0, $2)`
	_, err := r.db.ExecContext(ctx, query, userID, time.Now())
	return err
}

func (r *walletRepository) GetByUser(ctx context.Context, userID int32) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	query := `SELECT user_id, available, frozen, updated_on FROM wallets WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&w.UserID, &w.Available, &w.Frozen, &w.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func insertPayment(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	query := `INSERT INTO payments (order_id, user_id, amount, type, method, status, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return tx.QueryRowContext(ctx, query, p.OrderID, p.UserID, p.Amount, p.Type, p.Method, p.Status, p.Description, time.Now()).Scan(&p.ID)
}

// PayOrder performs the conditional debit and the audit record in one
// transaction. The WHERE clause on available makes the balance check and
// the debit a single atomic step; zero rows affected means insufficient
// funds and nothing is written.
func (r *walletRepository) PayOrder(ctx context.Context, renterID int32, total, deposit int64, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE wallets SET available = available - $1, frozen = frozen + $2, updated_on = $3
		 WHERE user_id = $4 AND available >= $1`,
		total, deposit, time.Now(), renterID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrInsufficientBalance
	}

	if err := insertPayment(ctx, tx, payment); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *walletRepository) ReleaseDeposit(ctx context.Context, renterID int32, deposit, refund int64, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET frozen = frozen - $1, available = available + $2, updated_on = $3 WHERE user_id = $4`,
		deposit, refund, time.Now(), renterID)
	if err != nil {
		return err
	}

	if err := insertPayment(ctx, tx, payment); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *walletRepository) RefundOrder(ctx context.Context, renterID int32, total, deposit int64, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET available = available + $1, frozen = frozen - $2, updated_on = $3 WHERE user_id = $4`,
		total, deposit, time.Now(), renterID)
	if err != nil {
		return err
	}

	if err := insertPayment(ctx, tx, payment); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *walletRepository) Credit(ctx context.Context, userID int32, amount int64, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET available = available + $1, updated_on = $2 WHERE user_id = $3`,
		amount, time.Now(), userID)
	if err != nil {
		return err
	}

	if payment != nil {
		if err := insertPayment(ctx, tx, payment); err != nil {
			return err
		}
	}
	return tx.Commit()
}
