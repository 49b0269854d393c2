package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `id, contract_number, parent_kind, order_id, sub_order_id, master_order_id,
	owner_id, renter_id, product_id,
	start_date, end_date, rental_rate, deposit, total, late_penalty_rate, damage_penalty,
	owner_signed, owner_signed_at, owner_ip, owner_payload, owner_payload_hash,
	renter_signed, renter_signed_at, renter_ip, renter_payload, renter_payload_hash,
	status, content_html, pdf_url,
	owner_verified, renter_verified, contract_hash, verified_at,
	is_active, expires_at, version, created_on, updated_on`

func scanContract(row interface{ Scan(...any) error }) (*domain.Contract, error) {
	c := &domain.Contract{}
	var (
		orderID, subOrderID, masterOrderID  sql.NullInt32
		ownerSignedAt, renterSignedAt       sql.NullTime
		ownerIP, ownerPayload, ownerHash    sql.NullString
		renterIP, renterPayload, renterHash sql.NullString
		contentHTML, pdfURL, contractHash   sql.NullString
		verifiedAt                          sql.NullTime
	)
	err := row.Scan(&c.ID, &c.ContractNumber, &c.Parent.Kind, &orderID, &subOrderID, &masterOrderID,
		&c.OwnerID, &c.RenterID, &c.ProductID,
		&c.Terms.StartDate, &c.Terms.EndDate, &c.Terms.RentalRate, &c.Terms.Deposit, &c.Terms.Total,
		&c.Terms.LatePenaltyRate, &c.Terms.DamagePenalty,
		&c.OwnerSignature.Signed, &ownerSignedAt, &ownerIP, &ownerPayload, &ownerHash,
		&c.RenterSignature.Signed, &renterSignedAt, &renterIP, &renterPayload, &renterHash,
		&c.Status, &contentHTML, &pdfURL,
		&c.Verification.OwnerVerified, &c.Verification.RenterVerified, &contractHash, &verifiedAt,
		&c.IsActive, &c.ExpiresAt, &c.Version, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		c.Parent.OrderID = orderID.Int32
	}
	if subOrderID.Valid {
		c.Parent.SubOrderID = subOrderID.Int32
	}
	if masterOrderID.Valid {
		c.Parent.MasterOrderID = masterOrderID.Int32
	}
	if ownerSignedAt.Valid {
		c.OwnerSignature.SignedAt = &ownerSignedAt.Time
	}
	c.OwnerSignature.IPAddress = ownerIP.String
	c.OwnerSignature.Payload = ownerPayload.String
	c.OwnerSignature.PayloadHash = ownerHash.String
	if renterSignedAt.Valid {
		c.RenterSignature.SignedAt = &renterSignedAt.Time
	}
	c.RenterSignature.IPAddress = renterIP.String
	c.RenterSignature.Payload = renterPayload.String
	c.RenterSignature.PayloadHash = renterHash.String
	c.ContentHTML = contentHTML.String
	c.PDFURL = pdfURL.String
	c.Verification.ContractHash = contractHash.String
	if verifiedAt.Valid {
		c.Verification.VerifiedAt = &verifiedAt.Time
	}
	return c, nil
}

func nullInt32(v int32) sql.NullInt32 {
	return sql.NullInt32{Int32: v, Valid: v != 0}
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	query := `INSERT INTO contracts (contract_number, parent_kind, order_id, sub_order_id, master_order_id,
	            owner_id, renter_id, product_id,
	            start_date, end_date, rental_rate, deposit, total, late_penalty_rate, damage_penalty,
	            status, content_html, pdf_url, is_active, expires_at, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, c.ContractNumber, c.Parent.Kind,
		nullInt32(c.Parent.OrderID), nullInt32(c.Parent.SubOrderID), nullInt32(c.Parent.MasterOrderID),
		c.OwnerID, c.RenterID, c.ProductID,
		c.Terms.StartDate, c.Terms.EndDate, c.Terms.RentalRate, c.Terms.Deposit, c.Terms.Total,
		c.Terms.LatePenaltyRate, c.Terms.DamagePenalty,
		c.Status, c.ContentHTML, c.PDFURL, c.IsActive, c.ExpiresAt, c.Version, now, now).Scan(&c.ID)
}

func (r *contractRepository) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	return scanContract(r.db.QueryRowContext(ctx, query, id))
}

func (r *contractRepository) GetByOrderID(ctx context.Context, orderID int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE parent_kind = $1 AND order_id = $2`
	return scanContract(r.db.QueryRowContext(ctx, query, domain.ParentKindOrder, orderID))
}

// Update writes the contract back conditionally on the version it was read
// at, so two concurrent signing calls cannot silently overwrite each other.
func (r *contractRepository) Update(ctx context.Context, c *domain.Contract) error {
	query := `UPDATE contracts SET
	            owner_signed=$1, owner_signed_at=$2, owner_ip=$3, owner_payload=$4, owner_payload_hash=$5,
	            renter_signed=$6, renter_signed_at=$7, renter_ip=$8, renter_payload=$9, renter_payload_hash=$10,
	            status=$11, owner_verified=$12, renter_verified=$13, contract_hash=$14, verified_at=$15,
	            is_active=$16, pdf_url=$17, version=version+1, updated_on=$18
	          WHERE id=$19 AND version=$20`
	res, err := r.db.ExecContext(ctx, query,
		c.OwnerSignature.Signed, c.OwnerSignature.SignedAt, c.OwnerSignature.IPAddress, c.OwnerSignature.Payload, c.OwnerSignature.PayloadHash,
		c.RenterSignature.Signed, c.RenterSignature.SignedAt, c.RenterSignature.IPAddress, c.RenterSignature.Payload, c.RenterSignature.PayloadHash,
		c.Status, c.Verification.OwnerVerified, c.Verification.RenterVerified, c.Verification.ContractHash, c.Verification.VerifiedAt,
		c.IsActive, c.PDFURL, time.Now(), c.ID, c.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrVersionConflict
	}
	c.Version++
	return nil
}

func (r *contractRepository) ListExpiredUnsigned(ctx context.Context, asOf time.Time) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
	          WHERE status IN ($1, $2, $3, $4) AND expires_at < $5`
	rows, err := r.db.QueryContext(ctx, query,
		domain.ContractStatusDraft, domain.ContractStatusPendingSignature,
		domain.ContractStatusPendingOwner, domain.ContractStatusPendingRenter, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}
