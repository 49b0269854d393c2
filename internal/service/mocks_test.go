package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"renthub-backend/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) UpdateStatus(ctx context.Context, id int32, status domain.ProductStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockProductRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Get(1).(int32), args.Error(2)
}

func (m *MockProductRepo) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Get(1).(int32), args.Error(2)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}

func (m *MockOrderRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}

func (m *MockOrderRepo) ListActivePastEnd(ctx context.Context, asOf time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepo) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepo) GetByOrderID(ctx context.Context, orderID int32) (*domain.Contract, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepo) Update(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepo) ListExpiredUnsigned(ctx context.Context, asOf time.Time) ([]domain.Contract, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

type MockSignatureRepo struct {
	mock.Mock
}

func (m *MockSignatureRepo) Upsert(ctx context.Context, sig *domain.StoredSignature) error {
	args := m.Called(ctx, sig)
	return args.Error(0)
}

func (m *MockSignatureRepo) GetActiveByUser(ctx context.Context, userID int32) (*domain.StoredSignature, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredSignature), args.Error(1)
}

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) CreateForUser(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockWalletRepo) GetByUser(ctx context.Context, userID int32) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepo) PayOrder(ctx context.Context, renterID int32, total, deposit int64, payment *domain.Payment) error {
	args := m.Called(ctx, renterID, total, deposit, payment)
	return args.Error(0)
}

func (m *MockWalletRepo) ReleaseDeposit(ctx context.Context, renterID int32, deposit, refund int64, payment *domain.Payment) error {
	args := m.Called(ctx, renterID, deposit, refund, payment)
	return args.Error(0)
}

func (m *MockWalletRepo) RefundOrder(ctx context.Context, renterID int32, total, deposit int64, payment *domain.Payment) error {
	args := m.Called(ctx, renterID, total, deposit, payment)
	return args.Error(0)
}

func (m *MockWalletRepo) Credit(ctx context.Context, userID int32, amount int64, payment *domain.Payment) error {
	args := m.Called(ctx, userID, amount, payment)
	return args.Error(0)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) ListByOrder(ctx context.Context, orderID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}

func (m *MockPaymentRepo) GetPendingByOrder(ctx context.Context, orderID int32, typ domain.PaymentType) (*domain.Payment, error) {
	args := m.Called(ctx, orderID, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// stubEmail satisfies EmailService; notification emails are best-effort so
// the tests do not assert on them.
type stubEmail struct{}

func (stubEmail) SendOTPEmail(ctx context.Context, email, name, code, orderNumber string) error {
	return nil
}

func (stubEmail) SendOrderRequestNotification(ctx context.Context, ownerEmail, renterName, productName, orderNumber string) error {
	return nil
}

func (stubEmail) SendOrderConfirmationNotification(ctx context.Context, renterEmail, productName, orderNumber string) error {
	return nil
}

func (stubEmail) SendContractReadyNotification(ctx context.Context, email, name, contractNumber string) error {
	return nil
}

func (stubEmail) SendContractSignedNotification(ctx context.Context, email, contractNumber string) error {
	return nil
}

func (stubEmail) SendPaymentReceiptNotification(ctx context.Context, renterEmail, orderNumber string, amount int64) error {
	return nil
}

func (stubEmail) SendReturnReminderNotification(ctx context.Context, renterEmail, productName, orderNumber string, overdueDays int32) error {
	return nil
}

func (stubEmail) SendDepositRefundNotification(ctx context.Context, renterEmail, orderNumber string, refund int64) error {
	return nil
}

func (stubEmail) SendOrderCancellationNotification(ctx context.Context, email, productName, orderNumber, reason string) error {
	return nil
}

// stubPDF satisfies render.PDFGenerator without touching the filesystem.
type stubPDF struct{}

func (stubPDF) Generate(ctx context.Context, contractNumber, html string) (string, error) {
	return "http://localhost:8080/contracts/" + contractNumber + ".html", nil
}
