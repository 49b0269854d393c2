package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type signatureRepository struct {
	db *sql.DB
}

func NewSignatureRepository(db *sql.DB) repository.SignatureRepository {
	return &signatureRepository{db: db}
}

// Upsert updates the user's active signature in place when one exists,
// bumping the usage counter; otherwise it inserts a fresh active row.
// At most one active signature per user is kept.
func (r *signatureRepository) Upsert(ctx context.Context, sig *domain.StoredSignature) error {
	now := time.Now()
	updateQuery := `UPDATE signatures
	                SET payload=$1, width=$2, height=$3, format=$4, captured_at=$5,
	                    usage_count = usage_count + 1, last_used_at=$6
	                WHERE user_id=$7 AND is_active
	                RETURNING id, usage_count`
	err := r.db.QueryRowContext(ctx, updateQuery, sig.Payload, sig.Width, sig.Height, sig.Format, sig.CapturedAt, now, sig.UserID).
		Scan(&sig.ID, &sig.UsageCount)
	if err == nil {
		sig.LastUsedAt = &now
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	insertQuery := `INSERT INTO signatures (user_id, payload, width, height, format, captured_at, usage_count, last_used_at, is_active, created_on)
	                VALUES ($1, $2, $3, $4, $5, $6, 1, $7, true, $8) RETURNING id`
	if err := r.db.QueryRowContext(ctx, insertQuery, sig.UserID, sig.Payload, sig.Width, sig.Height, sig.Format, sig.CapturedAt, now, now).Scan(&sig.ID); err != nil {
		return err
	}
	sig.UsageCount = 1
	sig.LastUsedAt = &now
	sig.IsActive = true
	return nil
}

func (r *signatureRepository) GetActiveByUser(ctx context.Context, userID int32) (*domain.StoredSignature, error) {
	sig := &domain.StoredSignature{}
	var lastUsed sql.NullTime
	query := `SELECT id, user_id, payload, width, height, format, captured_at, usage_count, last_used_at, is_active, created_on
	          FROM signatures WHERE user_id = $1 AND is_active`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&sig.ID, &sig.UserID, &sig.Payload, &sig.Width, &sig.Height,
		&sig.Format, &sig.CapturedAt, &sig.UsageCount, &lastUsed, &sig.IsActive, &sig.CreatedOn)
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		sig.LastUsedAt = &lastUsed.Time
	}
	return sig, nil
}
