package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, renter_id, owner_id, product_id,
	start_date, end_date, actual_start_date, actual_end_date, duration_value, duration_unit,
	rental_rate, subtotal, deposit, delivery_fee, total,
	payment_method, payment_status, delivery_method, delivery_address, status, contract_id,
	overtime_days, overtime_amount, damage_note, damage_amount, charges_total,
	cancelled_by, cancelled_at, cancel_reason, created_on, updated_on`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	var (
		actualStart, actualEnd sql.NullTime
		contractID             sql.NullInt32
		overtimeDays           sql.NullInt32
		overtimeAmount         sql.NullInt64
		damageNote             sql.NullString
		damageAmount           sql.NullInt64
		chargesTotal           sql.NullInt64
		cancelledBy            sql.NullInt32
		cancelledAt            sql.NullTime
		cancelReason           sql.NullString
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.RenterID, &o.OwnerID, &o.ProductID,
		&o.Rental.StartDate, &o.Rental.EndDate, &actualStart, &actualEnd,
		&o.Rental.DurationValue, &o.Rental.DurationUnit,
		&o.Pricing.RentalRate, &o.Pricing.Subtotal, &o.Pricing.Deposit, &o.Pricing.DeliveryFee, &o.Pricing.Total,
		&o.PaymentMethod, &o.PaymentStatus, &o.DeliveryMethod, &o.DeliveryAddress, &o.Status, &contractID,
		&overtimeDays, &overtimeAmount, &damageNote, &damageAmount, &chargesTotal,
		&cancelledBy, &cancelledAt, &cancelReason, &o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if actualStart.Valid {
		o.Rental.ActualStartDate = &actualStart.Time
	}
	if actualEnd.Valid {
		o.Rental.ActualEndDate = &actualEnd.Time
	}
	if contractID.Valid {
		o.ContractID = &contractID.Int32
	}
	if chargesTotal.Valid {
		o.Charges = &domain.AdditionalCharges{
			OvertimeDays:   overtimeDays.Int32,
			OvertimeAmount: overtimeAmount.Int64,
			DamageNote:     damageNote.String,
			DamageAmount:   damageAmount.Int64,
			Total:          chargesTotal.Int64,
		}
	}
	if cancelledAt.Valid {
		o.Cancellation = &domain.Cancellation{
			CancelledBy: cancelledBy.Int32,
			CancelledAt: cancelledAt.Time,
			Reason:      cancelReason.String,
		}
	}
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (order_number, renter_id, owner_id, product_id,
	            start_date, end_date, duration_value, duration_unit,
	            rental_rate, subtotal, deposit, delivery_fee, total,
	            payment_method, payment_status, delivery_method, delivery_address, status,
	            created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, o.OrderNumber, o.RenterID, o.OwnerID, o.ProductID,
		o.Rental.StartDate, o.Rental.EndDate, o.Rental.DurationValue, o.Rental.DurationUnit,
		o.Pricing.RentalRate, o.Pricing.Subtotal, o.Pricing.Deposit, o.Pricing.DeliveryFee, o.Pricing.Total,
		o.PaymentMethod, o.PaymentStatus, o.DeliveryMethod, o.DeliveryAddress, o.Status,
		now, now).Scan(&o.ID)
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	var (
		overtimeDays   sql.NullInt32
		overtimeAmount sql.NullInt64
		damageNote     sql.NullString
		damageAmount   sql.NullInt64
		chargesTotal   sql.NullInt64
		cancelledBy    sql.NullInt32
		cancelledAt    sql.NullTime
		cancelReason   sql.NullString
	)
	if o.Charges != nil {
		overtimeDays = sql.NullInt32{Int32: o.Charges.OvertimeDays, Valid: true}
		overtimeAmount = sql.NullInt64{Int64: o.Charges.OvertimeAmount, Valid: true}
		damageNote = sql.NullString{String: o.Charges.DamageNote, Valid: true}
		damageAmount = sql.NullInt64{Int64: o.Charges.DamageAmount, Valid: true}
		chargesTotal = sql.NullInt64{Int64: o.Charges.Total, Valid: true}
	}
	if o.Cancellation != nil {
		cancelledBy = sql.NullInt32{Int32: o.Cancellation.CancelledBy, Valid: true}
		cancelledAt = sql.NullTime{Time: o.Cancellation.CancelledAt, Valid: true}
		cancelReason = sql.NullString{String: o.Cancellation.Reason, Valid: true}
	}

	query := `UPDATE orders SET status=$1, payment_status=$2, contract_id=$3,
	            actual_start_date=$4, actual_end_date=$5,
	            overtime_days=$6, overtime_amount=$7, damage_note=$8, damage_amount=$9, charges_total=$10,
	            cancelled_by=$11, cancelled_at=$12, cancel_reason=$13, updated_on=$14
	          WHERE id=$15`
	_, err := r.db.ExecContext(ctx, query, o.Status, o.PaymentStatus, o.ContractID,
		o.Rental.ActualStartDate, o.Rental.ActualEndDate,
		overtimeDays, overtimeAmount, damageNote, damageAmount, chargesTotal,
		cancelledBy, cancelledAt, cancelReason, time.Now(), o.ID)
	return err
}

func (r *orderRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *orderRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *orderRepository) list(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	where := column + ` = $1`
	args := []any{userID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM orders WHERE `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where +
		` ORDER BY created_on DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, count, rows.Err()
}

func (r *orderRepository) ListActivePastEnd(ctx context.Context, asOf time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 AND end_date < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.OrderStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
