package service

import (
	"context"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/otp"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string, role domain.UserRole) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type ProductService interface {
	AddProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int32) (*domain.Product, error)
	UpdateProduct(ctx context.Context, ownerID int32, product *domain.Product) error
	DeleteProduct(ctx context.Context, ownerID, id int32) error
	ListProducts(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error)
	ListMyProducts(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error)
}

// CreateOrderRequest carries the renter's rental request. Dates use the
// 2006-01-02 layout.
type CreateOrderRequest struct {
	ProductID       int32                 `json:"product_id"`
	StartDate       string                `json:"start_date"`
	EndDate         string                `json:"end_date"`
	PaymentMethod   domain.PaymentMethod  `json:"payment_method"`
	DeliveryMethod  domain.DeliveryMethod `json:"delivery_method"`
	DeliveryAddress string                `json:"delivery_address"`
}

// ReturnRequest is the owner's return assessment. DamageAmount is entered
// manually after inspection.
type ReturnRequest struct {
	ActualEndDate *time.Time `json:"actual_end_date,omitempty"`
	DamageNote    string     `json:"damage_note"`
	DamageAmount  int64      `json:"damage_amount"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, renterID int32, req CreateOrderRequest) (*domain.Order, error)
	ConfirmOrder(ctx context.Context, ownerID, orderID int32) (*domain.Order, error)
	PayOrder(ctx context.Context, renterID, orderID int32) (*domain.Order, error)
	VerifyBankTransfer(ctx context.Context, ownerID, orderID int32) (*domain.Order, error)
	ShipOrder(ctx context.Context, ownerID, orderID int32) (*domain.Order, error)
	DeliverOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error)
	StartRental(ctx context.Context, userID, orderID int32) (*domain.Order, error)
	ReturnProduct(ctx context.Context, ownerID, orderID int32, req ReturnRequest) (*domain.Order, error)
	CancelOrder(ctx context.Context, userID, orderID int32, reason string) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error)
	ListMyRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Order, int32, error)
	ListMyLendings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Order, int32, error)
}

// SignContractRequest carries one party's signature submission.
type SignContractRequest struct {
	Payload   string `json:"payload"` // base64 signature image
	Width     int32  `json:"width"`
	Height    int32  `json:"height"`
	Format    string `json:"format"`
	IPAddress string `json:"-"`
}

type ContractService interface {
	GetContract(ctx context.Context, userID, contractID int32) (*domain.Contract, error)
	GetContractForOrder(ctx context.Context, userID, orderID int32) (*domain.Contract, error)
	SendSignOTP(ctx context.Context, userID, contractID int32) (*otp.SendResult, error)
	VerifySignOTP(ctx context.Context, userID, contractID int32, code string) error
	SignContract(ctx context.Context, userID, contractID int32, req SignContractRequest) (*domain.Contract, error)
}

type WalletService interface {
	GetBalance(ctx context.Context, userID int32) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error)
	TopUp(ctx context.Context, userID int32, amount int64) (*domain.Wallet, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendOTPEmail(ctx context.Context, email, name, code, orderNumber string) error
	SendOrderRequestNotification(ctx context.Context, ownerEmail, renterName, productName, orderNumber string) error
	SendOrderConfirmationNotification(ctx context.Context, renterEmail, productName, orderNumber string) error
	SendContractReadyNotification(ctx context.Context, email, name, contractNumber string) error
	SendContractSignedNotification(ctx context.Context, email, contractNumber string) error
	SendPaymentReceiptNotification(ctx context.Context, renterEmail, orderNumber string, amount int64) error
	SendReturnReminderNotification(ctx context.Context, renterEmail, productName, orderNumber string, overdueDays int32) error
	SendDepositRefundNotification(ctx context.Context, renterEmail, orderNumber string, refund int64) error
	SendOrderCancellationNotification(ctx context.Context, email, productName, orderNumber, reason string) error
}
