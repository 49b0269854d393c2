package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/events"
	"renthub-backend/internal/repository"
)

type orderFixture struct {
	orderRepo    *MockOrderRepo
	productRepo  *MockProductRepo
	userRepo     *MockUserRepo
	contractRepo *MockContractRepo
	walletRepo   *MockWalletRepo
	paymentRepo  *MockPaymentRepo
	noteRepo     *MockNotificationRepo
	svc          OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:    new(MockOrderRepo),
		productRepo:  new(MockProductRepo),
		userRepo:     new(MockUserRepo),
		contractRepo: new(MockContractRepo),
		walletRepo:   new(MockWalletRepo),
		paymentRepo:  new(MockPaymentRepo),
		noteRepo:     new(MockNotificationRepo),
	}
	f.svc = NewOrderService(
		f.orderRepo, f.productRepo, f.userRepo, f.contractRepo,
		f.walletRepo, f.paymentRepo, f.noteRepo,
		stubEmail{}, stubPDF{}, events.NewNoopPublisher(),
	)
	return f
}

var (
	testOwner  = &domain.User{ID: 1, Name: "Owner", Email: "owner@mail.com"}
	testRenter = &domain.User{ID: 2, Name: "Renter", Email: "renter@mail.com"}
)

func availableProduct() *domain.Product {
	return &domain.Product{
		ID:           5,
		OwnerID:      1,
		Name:         "Cordless Drill",
		CategorySlug: "power-tools",
		DailyRate:    100000,
		DeliveryFee:  20000,
		Status:       domain.ProductStatusAvailable,
	}
}

func confirmedOrder() *domain.Order {
	return &domain.Order{
		ID:          10,
		OrderNumber: "ORD-AAAA1111",
		RenterID:    2,
		OwnerID:     1,
		ProductID:   5,
		Rental: domain.RentalWindow{
			StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
		},
		Pricing: domain.PricingSnapshot{
			RentalRate: 100000,
			Subtotal:   500000,
			Deposit:    150000,
			Total:      650000,
		},
		PaymentMethod:  domain.PaymentMethodWallet,
		PaymentStatus:  domain.OrderPaymentStatusPending,
		DeliveryMethod: domain.DeliveryMethodPickup,
		Status:         domain.OrderStatusConfirmed,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)
	f.orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 10
		}).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(1)).Return(testOwner, nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	order, err := f.svc.CreateOrder(ctx, 2, CreateOrderRequest{
		ProductID:      5,
		StartDate:      "2026-06-01",
		EndDate:        "2026-06-06",
		PaymentMethod:  domain.PaymentMethodWallet,
		DeliveryMethod: domain.DeliveryMethodPickup,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, int32(2), order.RenterID)
	assert.Equal(t, int32(1), order.OwnerID)
	assert.Equal(t, int32(5), order.Rental.DurationValue)
	assert.Equal(t, int64(500000), order.Pricing.Subtotal)
	assert.Equal(t, int64(150000), order.Pricing.Deposit, "deposit defaults to 30% of subtotal")
	assert.Equal(t, int64(0), order.Pricing.DeliveryFee, "pickup orders carry no delivery fee")
	assert.Equal(t, int64(650000), order.Pricing.Total)
	assert.NotEmpty(t, order.OrderNumber)
	f.orderRepo.AssertExpectations(t)
}

func TestCreateOrder_DeliveryFeeApplied(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)
	f.orderRepo.On("Create", ctx, mock.Anything).Return(nil)
	f.userRepo.On("GetByID", ctx, mock.Anything).Return(testOwner, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	order, err := f.svc.CreateOrder(ctx, 2, CreateOrderRequest{
		ProductID:       5,
		StartDate:       "2026-06-01",
		EndDate:         "2026-06-06",
		PaymentMethod:   domain.PaymentMethodWallet,
		DeliveryMethod:  domain.DeliveryMethodDelivery,
		DeliveryAddress: "12 Elm Street",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(20000), order.Pricing.DeliveryFee)
	assert.Equal(t, int64(670000), order.Pricing.Total)
}

func TestCreateOrder_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("own product", func(t *testing.T) {
		f := newOrderFixture()
		f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)

		_, err := f.svc.CreateOrder(ctx, 1, CreateOrderRequest{ProductID: 5})
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	})

	t.Run("product not available", func(t *testing.T) {
		f := newOrderFixture()
		rented := availableProduct()
		rented.Status = domain.ProductStatusRented
		f.productRepo.On("GetByID", ctx, int32(5)).Return(rented, nil)

		_, err := f.svc.CreateOrder(ctx, 2, CreateOrderRequest{ProductID: 5})
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	})

	t.Run("end date not after start", func(t *testing.T) {
		f := newOrderFixture()
		f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)

		_, err := f.svc.CreateOrder(ctx, 2, CreateOrderRequest{
			ProductID:      5,
			StartDate:      "2026-06-06",
			EndDate:        "2026-06-01",
			PaymentMethod:  domain.PaymentMethodWallet,
			DeliveryMethod: domain.DeliveryMethodPickup,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("delivery without address", func(t *testing.T) {
		f := newOrderFixture()
		f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)

		_, err := f.svc.CreateOrder(ctx, 2, CreateOrderRequest{
			ProductID:      5,
			StartDate:      "2026-06-01",
			EndDate:        "2026-06-06",
			PaymentMethod:  domain.PaymentMethodWallet,
			DeliveryMethod: domain.DeliveryMethodDelivery,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestConfirmOrder_BelowThreshold(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusPending
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.ConfirmOrder(ctx, 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, got.Status)
	assert.Nil(t, got.ContractID)
	f.contractRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirmOrder_ContractRequired(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusPending
	order.Pricing.Total = 12_000_000

	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)
	f.userRepo.On("GetByID", ctx, int32(1)).Return(testOwner, nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.contractRepo.On("Create", ctx, mock.AnythingOfType("*domain.Contract")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Contract).ID = 77
		}).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.ConfirmOrder(ctx, 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusContractPending, got.Status)
	if assert.NotNil(t, got.ContractID) {
		assert.Equal(t, int32(77), *got.ContractID)
	}

	created := f.contractRepo.Calls[0].Arguments.Get(1).(*domain.Contract)
	assert.Equal(t, domain.ContractStatusDraft, created.Status)
	assert.Equal(t, order.Pricing.Deposit, created.Terms.Deposit)
	assert.Equal(t, 1.5, created.Terms.LatePenaltyRate)
	assert.NotEmpty(t, created.ContentHTML)
	assert.NotEmpty(t, created.PDFURL)
	assert.True(t, created.ExpiresAt.After(time.Now().Add(6*24*time.Hour)))
}

func TestConfirmOrder_NotOwner(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusPending
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)

	_, err := f.svc.ConfirmOrder(ctx, 2, 10)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}

func TestPayOrder_Wallet(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.walletRepo.On("PayOrder", ctx, int32(2), int64(650000), int64(150000),
		mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.PayOrder(ctx, 2, 10)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)
	assert.Equal(t, domain.OrderPaymentStatusPaid, got.PaymentStatus)

	payment := f.walletRepo.Calls[0].Arguments.Get(4).(*domain.Payment)
	assert.Equal(t, int64(-650000), payment.Amount, "wallet debits are negative")
	assert.Equal(t, domain.PaymentTypeRentalPayment, payment.Type)
}

func TestPayOrder_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.walletRepo.On("PayOrder", ctx, int32(2), int64(650000), int64(150000),
		mock.Anything).Return(repository.ErrInsufficientBalance)

	_, err := f.svc.PayOrder(ctx, 2, 10)

	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status, "order must not advance")
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPayOrder_BankTransferAwaitsVerification(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.PaymentMethod = domain.PaymentMethodBankTransfer
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

	got, err := f.svc.PayOrder(ctx, 2, 10)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, got.Status, "bank transfer waits for owner verification")
	assert.Equal(t, domain.OrderPaymentStatusPending, got.PaymentStatus)

	payment := f.paymentRepo.Calls[0].Arguments.Get(1).(*domain.Payment)
	assert.Equal(t, domain.PaymentRecordStatusPending, payment.Status)
	f.walletRepo.AssertNotCalled(t, "PayOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayOrder_WrongStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusPending
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)

	_, err := f.svc.PayOrder(ctx, 2, 10)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestVerifyBankTransfer(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.PaymentMethod = domain.PaymentMethodBankTransfer
	pending := &domain.Payment{
		ID:     3,
		Status: domain.PaymentRecordStatusPending,
		Type:   domain.PaymentTypeRentalPayment,
	}
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.paymentRepo.On("GetPendingByOrder", ctx, int32(10), domain.PaymentTypeRentalPayment).Return(pending, nil)
	f.paymentRepo.On("Update", ctx, pending).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.VerifyBankTransfer(ctx, 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)
	assert.Equal(t, domain.PaymentRecordStatusCompleted, pending.Status)
}

func TestReturnProduct_OnTime(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusActive
	order.PaymentStatus = domain.OrderPaymentStatusPaid
	actualEnd := order.Rental.EndDate

	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.walletRepo.On("ReleaseDeposit", ctx, int32(2), int64(150000), int64(150000),
		mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.walletRepo.On("Credit", ctx, int32(1), int64(500000),
		mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.productRepo.On("UpdateStatus", ctx, int32(5), domain.ProductStatusAvailable).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.ReturnProduct(ctx, 1, 10, ReturnRequest{ActualEndDate: &actualEnd})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)
	if assert.NotNil(t, got.Charges) {
		assert.Equal(t, int32(0), got.Charges.OvertimeDays)
		assert.Equal(t, int64(0), got.Charges.Total)
	}
	f.walletRepo.AssertExpectations(t)
}

func TestReturnProduct_OverdueWithDamage(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusActive
	order.PaymentStatus = domain.OrderPaymentStatusPaid
	actualEnd := order.Rental.EndDate.AddDate(0, 0, 3)

	// Overtime is 3 days at 1.5x the 100000 daily rate, 450000; with 100000
	// damage the charges exceed the 150000 deposit, so the refund clamps to
	// zero and the owner penalty is capped at the deposit.
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.walletRepo.On("ReleaseDeposit", ctx, int32(2), int64(150000), int64(0),
		mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.walletRepo.On("Credit", ctx, int32(1), int64(650000),
		mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.productRepo.On("UpdateStatus", ctx, int32(5), domain.ProductStatusAvailable).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.ReturnProduct(ctx, 1, 10, ReturnRequest{
		ActualEndDate: &actualEnd,
		DamageNote:    "cracked housing",
		DamageAmount:  100000,
	})

	assert.NoError(t, err)
	assert.Equal(t, int32(3), got.Charges.OvertimeDays)
	assert.Equal(t, int64(450000), got.Charges.OvertimeAmount)
	assert.Equal(t, int64(550000), got.Charges.Total)
	f.walletRepo.AssertExpectations(t)
}

func TestReturnProduct_CashOrderNeverTouchesWallets(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	// The renter paid the owner in cash, so the platform holds none of the
	// money. Settlement must only write audit records.
	order := confirmedOrder()
	order.Status = domain.OrderStatusActive
	order.PaymentStatus = domain.OrderPaymentStatusPaid
	order.PaymentMethod = domain.PaymentMethodCashOnDelivery
	actualEnd := order.Rental.EndDate

	var recorded []domain.Payment
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			recorded = append(recorded, *args.Get(1).(*domain.Payment))
		}).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.productRepo.On("UpdateStatus", ctx, int32(5), domain.ProductStatusAvailable).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.ReturnProduct(ctx, 1, 10, ReturnRequest{ActualEndDate: &actualEnd})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)
	f.walletRepo.AssertNotCalled(t, "ReleaseDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	if assert.Len(t, recorded, 2) {
		assert.Equal(t, domain.PaymentTypeDepositRefund, recorded[0].Type)
		assert.Equal(t, int32(2), recorded[0].UserID)
		assert.Equal(t, int64(150000), recorded[0].Amount)
		assert.Equal(t, domain.PaymentTypeOwnerPayout, recorded[1].Type)
		assert.Equal(t, int32(1), recorded[1].UserID)
		assert.Equal(t, int64(500000), recorded[1].Amount)
		assert.Equal(t, domain.PaymentMethodCashOnDelivery, recorded[1].Method)
	}
}

func TestReturnProduct_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("renter cannot record return", func(t *testing.T) {
		f := newOrderFixture()
		order := confirmedOrder()
		order.Status = domain.OrderStatusActive
		f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)

		_, err := f.svc.ReturnProduct(ctx, 2, 10, ReturnRequest{})
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
	})

	t.Run("negative damage amount", func(t *testing.T) {
		f := newOrderFixture()
		order := confirmedOrder()
		order.Status = domain.OrderStatusActive
		f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)

		_, err := f.svc.ReturnProduct(ctx, 1, 10, ReturnRequest{DamageAmount: -1})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("not active", func(t *testing.T) {
		f := newOrderFixture()
		f.orderRepo.On("GetByID", ctx, int32(10)).Return(confirmedOrder(), nil)

		_, err := f.svc.ReturnProduct(ctx, 1, 10, ReturnRequest{})
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	})
}

func TestCancelOrder_PaidWalletRefunds(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusPaid
	order.PaymentStatus = domain.OrderPaymentStatusPaid

	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.walletRepo.On("RefundOrder", ctx, int32(2), int64(650000), int64(150000),
		mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)
	f.userRepo.On("GetByID", ctx, int32(1)).Return(testOwner, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.CancelOrder(ctx, 2, 10, "changed my mind")

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
	assert.Equal(t, domain.OrderPaymentStatusRefunded, got.PaymentStatus)
	if assert.NotNil(t, got.Cancellation) {
		assert.Equal(t, int32(2), got.Cancellation.CancelledBy)
		assert.Equal(t, "changed my mind", got.Cancellation.Reason)
	}
	f.walletRepo.AssertExpectations(t)
}

func TestCancelOrder_PaidBankTransferRecordsRefund(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusPaid
	order.PaymentStatus = domain.OrderPaymentStatusPaid
	order.PaymentMethod = domain.PaymentMethodBankTransfer

	var recorded *domain.Payment
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.Payment)
		}).Return(nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)
	f.userRepo.On("GetByID", ctx, int32(1)).Return(testOwner, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.CancelOrder(ctx, 2, 10, "changed my mind")

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderPaymentStatusRefunded, got.PaymentStatus)
	f.walletRepo.AssertNotCalled(t, "RefundOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	if assert.NotNil(t, recorded) {
		assert.Equal(t, domain.PaymentTypeOrderRefund, recorded.Type)
		assert.Equal(t, domain.PaymentMethodBankTransfer, recorded.Method)
		assert.Equal(t, int32(2), recorded.UserID)
		assert.Equal(t, int64(650000), recorded.Amount)
	}
}

func TestCancelOrder_UnpaidSkipsRefund(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)
	f.orderRepo.On("Update", ctx, order).Return(nil)
	f.productRepo.On("GetByID", ctx, int32(5)).Return(availableProduct(), nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.CancelOrder(ctx, 1, 10, "tool needs repair")

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
	f.walletRepo.AssertNotCalled(t, "RefundOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOrder_ActiveRejected(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order := confirmedOrder()
	order.Status = domain.OrderStatusActive
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(order, nil)

	_, err := f.svc.CancelOrder(ctx, 2, 10, "too late")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestGetOrder_NotParty(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.orderRepo.On("GetByID", ctx, int32(10)).Return(confirmedOrder(), nil)

	_, err := f.svc.GetOrder(ctx, 99, 10)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}
