package repository

import (
	"context"
	"errors"
	"time"

	"renthub-backend/internal/domain"
)

var (
	// ErrInsufficientBalance is returned by conditional wallet debits when
	// the available balance does not cover the amount. Nothing is mutated.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	// ErrVersionConflict is returned by conditional updates when the row
	// version has moved since the entity was read.
	ErrVersionConflict = errors.New("version conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateStatus(ctx context.Context, id int32, status domain.ProductStatus) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Order, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Order, int32, error)
	// ListActivePastEnd returns ACTIVE orders whose planned end date is
	// before asOf, for return reminders.
	ListActivePastEnd(ctx context.Context, asOf time.Time) ([]domain.Order, error)
}

type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id int32) (*domain.Contract, error)
	GetByOrderID(ctx context.Context, orderID int32) (*domain.Contract, error)
	// Update is conditional on contract.Version and increments it;
	// a stale version yields ErrVersionConflict.
	Update(ctx context.Context, contract *domain.Contract) error
	// ListExpiredUnsigned returns contracts still awaiting signatures whose
	// expires_at is before asOf.
	ListExpiredUnsigned(ctx context.Context, asOf time.Time) ([]domain.Contract, error)
}

type SignatureRepository interface {
	// Upsert saves the user's active signature, deactivating any previous
	// one and bumping the usage counter.
	Upsert(ctx context.Context, sig *domain.StoredSignature) error
	GetActiveByUser(ctx context.Context, userID int32) (*domain.StoredSignature, error)
}

type WalletRepository interface {
	CreateForUser(ctx context.Context, userID int32) error
	GetByUser(ctx context.Context, userID int32) (*domain.Wallet, error)
	// PayOrder atomically debits total from available (failing with
	// ErrInsufficientBalance when short), parks deposit in frozen, and
	// writes the paired payment record, all in one transaction.
	PayOrder(ctx context.Context, renterID int32, total, deposit int64, payment *domain.Payment) error
	// ReleaseDeposit removes the full original deposit from frozen,
	// credits the clamped refund to available, and writes the refund
	// record in the same transaction.
	ReleaseDeposit(ctx context.Context, renterID int32, deposit, refund int64, payment *domain.Payment) error
	// RefundOrder reverses a paid order on cancellation: total back to
	// available, deposit out of frozen.
	RefundOrder(ctx context.Context, renterID int32, total, deposit int64, payment *domain.Payment) error
	// Credit adds amount to available, recording the paired payment when
	// non-nil.
	Credit(ctx context.Context, userID int32, amount int64, payment *domain.Payment) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	ListByOrder(ctx context.Context, orderID int32) ([]domain.Payment, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error)
	GetPendingByOrder(ctx context.Context, orderID int32, typ domain.PaymentType) (*domain.Payment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
