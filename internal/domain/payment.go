package domain

import "time"

type PaymentType string

const (
	PaymentTypeRentalPayment PaymentType = "RENTAL_PAYMENT"
	PaymentTypeDepositRefund PaymentType = "DEPOSIT_REFUND"
	PaymentTypeOwnerPayout   PaymentType = "OWNER_PAYOUT"
	PaymentTypeOrderRefund   PaymentType = "ORDER_REFUND"
	PaymentTypeWalletTopUp   PaymentType = "WALLET_TOPUP"
)

type PaymentRecordStatus string

const (
	PaymentRecordStatusPending   PaymentRecordStatus = "PENDING"
	PaymentRecordStatusCompleted PaymentRecordStatus = "COMPLETED"
	PaymentRecordStatusFailed    PaymentRecordStatus = "FAILED"
)

// Payment is the audit record paired with every wallet movement. It is
// written in the same database transaction as the balance mutation it
// describes.
type Payment struct {
	ID          int32               `json:"id"`
	OrderID     int32               `json:"order_id"`
	UserID      int32               `json:"user_id"`
	Amount      int64               `json:"amount"` // positive credit, negative debit
	Type        PaymentType         `json:"type"`
	Method      PaymentMethod       `json:"method"`
	Status      PaymentRecordStatus `json:"status"`
	Description string              `json:"description"`
	CreatedOn   time.Time           `json:"created_on"`
}
