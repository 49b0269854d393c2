package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/events"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/pricing"
	"renthub-backend/internal/render"
	"renthub-backend/internal/repository"
)

const (
	dateLayout = "2006-01-02"

	// contractSigningWindow is how long an unsigned contract stays open
	// before the expiry sweep voids it and cancels the order.
	contractSigningWindow = 7 * 24 * time.Hour

	latePenaltyRate = 1.5
)

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	contractRepo repository.ContractRepository
	walletRepo   repository.WalletRepository
	paymentRepo  repository.PaymentRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	pdfGen       render.PDFGenerator
	publisher    events.Publisher
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	contractRepo repository.ContractRepository,
	walletRepo repository.WalletRepository,
	paymentRepo repository.PaymentRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	pdfGen render.PDFGenerator,
	publisher events.Publisher,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		contractRepo: contractRepo,
		walletRepo:   walletRepo,
		paymentRepo:  paymentRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		pdfGen:       pdfGen,
		publisher:    publisher,
	}
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

func newContractNumber() string {
	return "CTR-" + strings.ToUpper(uuid.NewString()[:8])
}

// applyEvent maps off-table transitions to a client error so handlers can
// return 400 instead of 500.
func applyEvent(order *domain.Order, event domain.OrderEvent) error {
	if err := order.Apply(event); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return apperrors.BadRequest("%v", err)
		}
		return err
	}
	return nil
}

func (s *orderService) CreateOrder(ctx context.Context, renterID int32, req CreateOrderRequest) (*domain.Order, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, apperrors.NotFound("product %d not found", req.ProductID)
	}
	if product.OwnerID == renterID {
		return nil, apperrors.BadRequest("cannot rent your own product")
	}
	if product.Status != domain.ProductStatusAvailable {
		return nil, apperrors.BadRequest("product is not available for rent")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apperrors.Validation("invalid end date, expected YYYY-MM-DD")
	}
	if !end.After(start) {
		return nil, apperrors.Validation("end date must be after start date")
	}

	switch req.PaymentMethod {
	case domain.PaymentMethodWallet, domain.PaymentMethodBankTransfer, domain.PaymentMethodCashOnDelivery:
	default:
		return nil, apperrors.Validation("unknown payment method %q", req.PaymentMethod)
	}

	var deliveryFee int64
	switch req.DeliveryMethod {
	case domain.DeliveryMethodDelivery:
		if req.DeliveryAddress == "" {
			return nil, apperrors.Validation("delivery address is required for delivery orders")
		}
		deliveryFee = product.DeliveryFee
	case domain.DeliveryMethodPickup:
	default:
		return nil, apperrors.Validation("unknown delivery method %q", req.DeliveryMethod)
	}

	quote := pricing.QuoteRental(product, start, end, deliveryFee)

	order := &domain.Order{
		OrderNumber: newOrderNumber(),
		RenterID:    renterID,
		OwnerID:     product.OwnerID,
		ProductID:   product.ID,
		Rental: domain.RentalWindow{
			StartDate:     start,
			EndDate:       end,
			DurationValue: quote.Days,
			DurationUnit:  quote.DurationUnit,
		},
		Pricing: domain.PricingSnapshot{
			RentalRate:  quote.RentalRate,
			Subtotal:    quote.Subtotal,
			Deposit:     quote.Deposit,
			DeliveryFee: quote.DeliveryFee,
			Total:       quote.Total,
		},
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   domain.OrderPaymentStatusPending,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		Status:          domain.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to create order", err)
	}

	owner, _ := s.userRepo.GetByID(ctx, product.OwnerID)
	renter, _ := s.userRepo.GetByID(ctx, renterID)
	if owner != nil && renter != nil {
		_ = s.emailSvc.SendOrderRequestNotification(ctx, owner.Email, renter.Name, product.Name, order.OrderNumber)
		_ = s.noteRepo.Create(ctx, &domain.Notification{
			UserID:  owner.ID,
			Title:   "New Rental Request",
			Message: fmt.Sprintf("%s requested to rent %s", renter.Name, product.Name),
			Attributes: map[string]string{
				"type":     "ORDER_REQUEST",
				"order_id": fmt.Sprintf("%d", order.ID),
			},
		})
	}

	s.publishOrderEvent(order)
	return order, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, ownerID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if order.OwnerID != ownerID {
		return nil, apperrors.Authorization("only the owner can confirm this order")
	}

	product, err := s.productRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}

	if domain.RequiresContract(product, order.Pricing.Total) {
		if err := applyEvent(order, domain.OrderEventRequireContract); err != nil {
			return nil, err
		}
		contract, err := s.createDraftContract(ctx, order, product)
		if err != nil {
			return nil, err
		}
		order.ContractID = &contract.ID
	} else {
		if err := applyEvent(order, domain.OrderEventConfirm); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to update order", err)
	}

	if renter, err := s.userRepo.GetByID(ctx, order.RenterID); err == nil {
		_ = s.emailSvc.SendOrderConfirmationNotification(ctx, renter.Email, product.Name, order.OrderNumber)
		_ = s.noteRepo.Create(ctx, &domain.Notification{
			UserID:  order.RenterID,
			Title:   "Rental Confirmed",
			Message: fmt.Sprintf("Your rental of %s was confirmed", product.Name),
			Attributes: map[string]string{
				"type":     "ORDER_CONFIRMED",
				"order_id": fmt.Sprintf("%d", order.ID),
			},
		})
	}

	s.publishOrderEvent(order)
	return order, nil
}

// createDraftContract renders the contract document, generates its PDF and
// persists the DRAFT, all synchronously so the caller sees the contract URL
// in the confirmation response.
func (s *orderService) createDraftContract(ctx context.Context, order *domain.Order, product *domain.Product) (*domain.Contract, error) {
	owner, err := s.userRepo.GetByID(ctx, order.OwnerID)
	if err != nil {
		return nil, apperrors.Internal("failed to load owner", err)
	}
	renter, err := s.userRepo.GetByID(ctx, order.RenterID)
	if err != nil {
		return nil, apperrors.Internal("failed to load renter", err)
	}

	contract := &domain.Contract{
		ContractNumber: newContractNumber(),
		Parent:         domain.OrderParent(order.ID),
		OwnerID:        order.OwnerID,
		RenterID:       order.RenterID,
		ProductID:      order.ProductID,
		Terms: domain.ContractTerms{
			StartDate:       order.Rental.StartDate,
			EndDate:         order.Rental.EndDate,
			RentalRate:      order.Pricing.RentalRate,
			Deposit:         order.Pricing.Deposit,
			Total:           order.Pricing.Total,
			LatePenaltyRate: latePenaltyRate,
		},
		Status:    domain.ContractStatusDraft,
		ExpiresAt: time.Now().Add(contractSigningWindow),
	}

	html, err := render.RenderContractHTML(render.ContractData{
		Contract: contract,
		Product:  product,
		Owner:    owner,
		Renter:   renter,
		Order:    order,
	})
	if err != nil {
		return nil, apperrors.Internal("failed to render contract", err)
	}
	contract.ContentHTML = html

	pdfURL, err := s.pdfGen.Generate(ctx, contract.ContractNumber, html)
	if err != nil {
		return nil, apperrors.Internal("failed to generate contract document", err)
	}
	contract.PDFURL = pdfURL

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, apperrors.Internal("failed to create contract", err)
	}

	_ = s.emailSvc.SendContractReadyNotification(ctx, owner.Email, owner.Name, contract.ContractNumber)
	_ = s.emailSvc.SendContractReadyNotification(ctx, renter.Email, renter.Name, contract.ContractNumber)
	return contract, nil
}

func (s *orderService) PayOrder(ctx context.Context, renterID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if order.RenterID != renterID {
		return nil, apperrors.Authorization("only the renter can pay this order")
	}
	if !order.CanApply(domain.OrderEventPay) {
		return nil, apperrors.BadRequest("order %s cannot be paid in status %s", order.OrderNumber, order.Status)
	}

	switch order.PaymentMethod {
	case domain.PaymentMethodWallet:
		payment := &domain.Payment{
			OrderID:     order.ID,
			UserID:      renterID,
			Amount:      -order.Pricing.Total,
			Type:        domain.PaymentTypeRentalPayment,
			Method:      domain.PaymentMethodWallet,
			Status:      domain.PaymentRecordStatusCompleted,
			Description: fmt.Sprintf("Rental payment for order %s", order.OrderNumber),
		}
		err := s.walletRepo.PayOrder(ctx, renterID, order.Pricing.Total, order.Pricing.Deposit, payment)
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, apperrors.BadRequest("insufficient wallet balance")
		}
		if err != nil {
			return nil, apperrors.Internal("failed to process wallet payment", err)
		}
		return s.completePayment(ctx, order)

	case domain.PaymentMethodBankTransfer:
		payment := &domain.Payment{
			OrderID:     order.ID,
			UserID:      renterID,
			Amount:      -order.Pricing.Total,
			Type:        domain.PaymentTypeRentalPayment,
			Method:      domain.PaymentMethodBankTransfer,
			Status:      domain.PaymentRecordStatusPending,
			Description: fmt.Sprintf("Bank transfer for order %s, awaiting owner verification", order.OrderNumber),
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, apperrors.Internal("failed to record bank transfer", err)
		}
		// The order does not advance until the owner verifies receipt.
		return order, nil

	case domain.PaymentMethodCashOnDelivery:
		payment := &domain.Payment{
			OrderID:     order.ID,
			UserID:      renterID,
			Amount:      -order.Pricing.Total,
			Type:        domain.PaymentTypeRentalPayment,
			Method:      domain.PaymentMethodCashOnDelivery,
			Status:      domain.PaymentRecordStatusCompleted,
			Description: fmt.Sprintf("Cash on delivery for order %s", order.OrderNumber),
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, apperrors.Internal("failed to record payment", err)
		}
		return s.completePayment(ctx, order)

	default:
		return nil, apperrors.BadRequest("unknown payment method %q", order.PaymentMethod)
	}
}

func (s *orderService) VerifyBankTransfer(ctx context.Context, ownerID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if order.OwnerID != ownerID {
		return nil, apperrors.Authorization("only the owner can verify the transfer")
	}
	if order.PaymentMethod != domain.PaymentMethodBankTransfer {
		return nil, apperrors.BadRequest("order %s was not paid by bank transfer", order.OrderNumber)
	}

	payment, err := s.paymentRepo.GetPendingByOrder(ctx, order.ID, domain.PaymentTypeRentalPayment)
	if err != nil {
		return nil, apperrors.BadRequest("no pending bank transfer for order %s", order.OrderNumber)
	}
	payment.Status = domain.PaymentRecordStatusCompleted
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, apperrors.Internal("failed to update payment", err)
	}

	return s.completePayment(ctx, order)
}

// completePayment advances the order past payment and activates the signed
// contract when one exists.
func (s *orderService) completePayment(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := applyEvent(order, domain.OrderEventPay); err != nil {
		return nil, err
	}
	order.PaymentStatus = domain.OrderPaymentStatusPaid
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to update order", err)
	}

	if order.ContractID != nil {
		if contract, err := s.contractRepo.GetByID(ctx, *order.ContractID); err == nil && contract.Status == domain.ContractStatusSigned {
			contract.Status = domain.ContractStatusActive
			if err := s.contractRepo.Update(ctx, contract); err != nil {
				logger.Error("failed to activate contract", "contract_id", contract.ID, "error", err)
			}
		}
	}

	if renter, err := s.userRepo.GetByID(ctx, order.RenterID); err == nil {
		_ = s.emailSvc.SendPaymentReceiptNotification(ctx, renter.Email, order.OrderNumber, order.Pricing.Total)
	}
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		UserID:  order.OwnerID,
		Title:   "Order Paid",
		Message: fmt.Sprintf("Order %s has been paid", order.OrderNumber),
		Attributes: map[string]string{
			"type":     "ORDER_PAID",
			"order_id": fmt.Sprintf("%d", order.ID),
		},
	})

	s.publisher.Publish(events.Event{
		Type:    events.TypePaymentRecorded,
		OrderID: order.ID,
		Attributes: map[string]string{
			"order_number": order.OrderNumber,
			"method":       string(order.PaymentMethod),
			"amount":       fmt.Sprintf("%d", order.Pricing.Total),
		},
	})
	s.publishOrderEvent(order)
	return order, nil
}

func (s *orderService) ShipOrder(ctx context.Context, ownerID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if order.OwnerID != ownerID {
		return nil, apperrors.Authorization("only the owner can ship this order")
	}
	if order.DeliveryMethod != domain.DeliveryMethodDelivery {
		return nil, apperrors.BadRequest("pickup orders are not shipped")
	}
	if err := applyEvent(order, domain.OrderEventShip); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to update order", err)
	}
	s.publishOrderEvent(order)
	return order, nil
}

func (s *orderService) DeliverOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if userID != order.OwnerID && userID != order.RenterID {
		return nil, apperrors.Authorization("not a party to this order")
	}
	if err := applyEvent(order, domain.OrderEventDeliver); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to update order", err)
	}
	s.publishOrderEvent(order)
	return order, nil
}

func (s *orderService) StartRental(ctx context.Context, userID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if userID != order.OwnerID && userID != order.RenterID {
		return nil, apperrors.Authorization("not a party to this order")
	}
	if err := applyEvent(order, domain.OrderEventStart); err != nil {
		return nil, err
	}
	now := time.Now()
	order.Rental.ActualStartDate = &now

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to update order", err)
	}
	if err := s.productRepo.UpdateStatus(ctx, order.ProductID, domain.ProductStatusRented); err != nil {
		logger.Error("failed to mark product rented", "product_id", order.ProductID, "error", err)
	}
	s.publishOrderEvent(order)
	return order, nil
}

func (s *orderService) ReturnProduct(ctx context.Context, ownerID, orderID int32, req ReturnRequest) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if order.OwnerID != ownerID {
		return nil, apperrors.Authorization("only the owner can record the return")
	}
	if req.DamageAmount < 0 {
		return nil, apperrors.Validation("damage amount cannot be negative")
	}
	if err := applyEvent(order, domain.OrderEventReturn); err != nil {
		return nil, err
	}

	actualEnd := time.Now()
	if req.ActualEndDate != nil {
		actualEnd = *req.ActualEndDate
	}
	order.Rental.ActualEndDate = &actualEnd

	overdueDays := pricing.OverdueDays(order.Rental.EndDate, actualEnd)
	overtime := pricing.OvertimeAmount(overdueDays, order.Pricing.RentalRate)
	chargesTotal := overtime + req.DamageAmount
	order.Charges = &domain.AdditionalCharges{
		OvertimeDays:   overdueDays,
		OvertimeAmount: overtime,
		DamageNote:     req.DamageNote,
		DamageAmount:   req.DamageAmount,
		Total:          chargesTotal,
	}

	deposit := order.Pricing.Deposit
	refund := deposit - chargesTotal
	if refund < 0 {
		// Shortfall beyond the deposit is absorbed, never billed further.
		refund = 0
	}
	penalty := chargesTotal
	if penalty > deposit {
		penalty = deposit
	}

	if order.PaymentStatus == domain.OrderPaymentStatusPaid {
		if err := s.settleReturn(ctx, order, deposit, refund, penalty); err != nil {
			return nil, err
		}
	}

	if err := applyEvent(order, domain.OrderEventComplete); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to update order", err)
	}

	if err := s.productRepo.UpdateStatus(ctx, order.ProductID, domain.ProductStatusAvailable); err != nil {
		logger.Error("failed to mark product available", "product_id", order.ProductID, "error", err)
	}

	if order.ContractID != nil {
		if contract, err := s.contractRepo.GetByID(ctx, *order.ContractID); err == nil {
			contract.Status = domain.ContractStatusCompleted
			contract.IsActive = false
			if err := s.contractRepo.Update(ctx, contract); err != nil {
				logger.Error("failed to complete contract", "contract_id", contract.ID, "error", err)
			}
		}
	}

	if renter, err := s.userRepo.GetByID(ctx, order.RenterID); err == nil {
		_ = s.emailSvc.SendDepositRefundNotification(ctx, renter.Email, order.OrderNumber, refund)
		_ = s.noteRepo.Create(ctx, &domain.Notification{
			UserID:  order.RenterID,
			Title:   "Rental Complete",
			Message: fmt.Sprintf("Order %s is complete, %d of your deposit was refunded", order.OrderNumber, refund),
			Attributes: map[string]string{
				"type":     "ORDER_COMPLETED",
				"order_id": fmt.Sprintf("%d", order.ID),
			},
		})
	}

	s.publishOrderEvent(order)
	return order, nil
}

// settleReturn moves the money: the full deposit leaves frozen, the clamped
// refund goes back to the renter, and the owner is paid the subtotal plus
// penalties bounded by the deposit. Bank transfer and cash orders hold no
// wallet funds and the owner was paid directly, so only audit records are
// written for them.
func (s *orderService) settleReturn(ctx context.Context, order *domain.Order, deposit, refund, penalty int64) error {
	if order.PaymentMethod == domain.PaymentMethodWallet {
		refundPayment := &domain.Payment{
			OrderID:     order.ID,
			UserID:      order.RenterID,
			Amount:      refund,
			Type:        domain.PaymentTypeDepositRefund,
			Method:      domain.PaymentMethodWallet,
			Status:      domain.PaymentRecordStatusCompleted,
			Description: fmt.Sprintf("Deposit refund for order %s", order.OrderNumber),
		}
		if err := s.walletRepo.ReleaseDeposit(ctx, order.RenterID, deposit, refund, refundPayment); err != nil {
			return apperrors.Internal("failed to release deposit", err)
		}
	} else {
		// Off-platform payment: record the refund obligation without
		// touching wallet balances.
		refundPayment := &domain.Payment{
			OrderID:     order.ID,
			UserID:      order.RenterID,
			Amount:      refund,
			Type:        domain.PaymentTypeDepositRefund,
			Method:      order.PaymentMethod,
			Status:      domain.PaymentRecordStatusCompleted,
			Description: fmt.Sprintf("Deposit refund for order %s", order.OrderNumber),
		}
		if err := s.paymentRepo.Create(ctx, refundPayment); err != nil {
			return apperrors.Internal("failed to record deposit refund", err)
		}
	}

	payout := order.Pricing.Subtotal + order.Pricing.DeliveryFee + penalty
	payoutPayment := &domain.Payment{
		OrderID:     order.ID,
		UserID:      order.OwnerID,
		Amount:      payout,
		Type:        domain.PaymentTypeOwnerPayout,
		Method:      order.PaymentMethod,
		Status:      domain.PaymentRecordStatusCompleted,
		Description: fmt.Sprintf("Owner payout for order %s", order.OrderNumber),
	}
	if order.PaymentMethod == domain.PaymentMethodWallet {
		// Only wallet orders hold the rental funds on the platform.
		if err := s.walletRepo.Credit(ctx, order.OwnerID, payout, payoutPayment); err != nil {
			return apperrors.Internal("failed to credit owner payout", err)
		}
	} else if err := s.paymentRepo.Create(ctx, payoutPayment); err != nil {
		return apperrors.Internal("failed to record owner payout", err)
	}

	s.publisher.Publish(events.Event{
		Type:    events.TypeDepositReleased,
		OrderID: order.ID,
		Attributes: map[string]string{
			"order_number": order.OrderNumber,
			"deposit":      fmt.Sprintf("%d", deposit),
			"refund":       fmt.Sprintf("%d", refund),
			"penalty":      fmt.Sprintf("%d", penalty),
		},
	})
	return nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID, orderID int32, reason string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if userID != order.OwnerID && userID != order.RenterID {
		return nil, apperrors.Authorization("not a party to this order")
	}
	if err := applyEvent(order, domain.OrderEventCancel); err != nil {
		return nil, err
	}

	order.Cancellation = &domain.Cancellation{
		CancelledBy: userID,
		CancelledAt: time.Now(),
		Reason:      reason,
	}

	if order.PaymentStatus == domain.OrderPaymentStatusPaid {
		refundPayment := &domain.Payment{
			OrderID:     order.ID,
			UserID:      order.RenterID,
			Amount:      order.Pricing.Total,
			Type:        domain.PaymentTypeOrderRefund,
			Method:      order.PaymentMethod,
			Status:      domain.PaymentRecordStatusCompleted,
			Description: fmt.Sprintf("Refund for cancelled order %s", order.OrderNumber),
		}
		if order.PaymentMethod == domain.PaymentMethodWallet {
			if err := s.walletRepo.RefundOrder(ctx, order.RenterID, order.Pricing.Total, order.Pricing.Deposit, refundPayment); err != nil {
				return nil, apperrors.Internal("failed to refund order", err)
			}
		} else {
			// Off-platform refund is settled between the parties; the
			// record keeps the payment trail complete.
			if err := s.paymentRepo.Create(ctx, refundPayment); err != nil {
				return nil, apperrors.Internal("failed to record refund", err)
			}
		}
		order.PaymentStatus = domain.OrderPaymentStatusRefunded
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("failed to update order", err)
	}

	if order.ContractID != nil {
		if contract, err := s.contractRepo.GetByID(ctx, *order.ContractID); err == nil &&
			contract.Status != domain.ContractStatusCompleted && contract.Status != domain.ContractStatusExpired {
			contract.Status = domain.ContractStatusTerminated
			contract.IsActive = false
			if err := s.contractRepo.Update(ctx, contract); err != nil {
				logger.Error("failed to terminate contract", "contract_id", contract.ID, "error", err)
			}
		}
	}

	product, _ := s.productRepo.GetByID(ctx, order.ProductID)
	productName := ""
	if product != nil {
		productName = product.Name
	}
	counterparty := order.OwnerID
	if userID == order.OwnerID {
		counterparty = order.RenterID
	}
	if other, err := s.userRepo.GetByID(ctx, counterparty); err == nil {
		_ = s.emailSvc.SendOrderCancellationNotification(ctx, other.Email, productName, order.OrderNumber, reason)
		_ = s.noteRepo.Create(ctx, &domain.Notification{
			UserID:  counterparty,
			Title:   "Order Cancelled",
			Message: fmt.Sprintf("Order %s was cancelled", order.OrderNumber),
			Attributes: map[string]string{
				"type":     "ORDER_CANCELLED",
				"order_id": fmt.Sprintf("%d", order.ID),
			},
		})
	}

	s.publishOrderEvent(order)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if userID != order.OwnerID && userID != order.RenterID {
		return nil, apperrors.Authorization("not a party to this order")
	}
	return order, nil
}

func (s *orderService) ListMyRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	orders, total, err := s.orderRepo.ListByRenter(ctx, renterID, status, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list rentals", err)
	}
	return orders, total, nil
}

func (s *orderService) ListMyLendings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	orders, total, err := s.orderRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list lendings", err)
	}
	return orders, total, nil
}

func (s *orderService) publishOrderEvent(order *domain.Order) {
	s.publisher.Publish(events.Event{
		Type:    events.TypeOrderStatusChanged,
		OrderID: order.ID,
		Attributes: map[string]string{
			"order_number": order.OrderNumber,
			"status":       string(order.Status),
		},
	})
}
