package domain

import (
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusConfirmed       OrderStatus = "CONFIRMED"
	OrderStatusContractPending OrderStatus = "CONTRACT_PENDING"
	OrderStatusContractSigned  OrderStatus = "CONTRACT_SIGNED"
	OrderStatusPaid            OrderStatus = "PAID"
	OrderStatusShipped         OrderStatus = "SHIPPED"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusActive          OrderStatus = "ACTIVE"
	OrderStatusReturned        OrderStatus = "RETURNED"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

type OrderPaymentStatus string

const (
	OrderPaymentStatusPending  OrderPaymentStatus = "PENDING"
	OrderPaymentStatusPaid     OrderPaymentStatus = "PAID"
	OrderPaymentStatusRefunded OrderPaymentStatus = "REFUNDED"
	OrderPaymentStatusFailed   OrderPaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentMethodWallet         PaymentMethod = "WALLET"
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "PICKUP"
	DeliveryMethodDelivery DeliveryMethod = "DELIVERY"
)

type DurationUnit string

const (
	DurationUnitDay   DurationUnit = "DAY"
	DurationUnitWeek  DurationUnit = "WEEK"
	DurationUnitMonth DurationUnit = "MONTH"
)

// OrderEvent drives the order state machine. Every status mutation goes
// through Order.Apply so off-table transitions are rejected in one place.
type OrderEvent string

const (
	OrderEventConfirm         OrderEvent = "confirm"
	OrderEventRequireContract OrderEvent = "require_contract"
	OrderEventContractSigned  OrderEvent = "contract_signed"
	OrderEventPay             OrderEvent = "pay"
	OrderEventShip            OrderEvent = "ship"
	OrderEventDeliver         OrderEvent = "deliver"
	OrderEventStart           OrderEvent = "start"
	OrderEventReturn          OrderEvent = "return"
	OrderEventComplete        OrderEvent = "complete"
	OrderEventCancel          OrderEvent = "cancel"
)

var ErrInvalidTransition = errors.New("invalid order transition")

var orderTransitions = map[OrderStatus]map[OrderEvent]OrderStatus{
	OrderStatusPending: {
		OrderEventConfirm:         OrderStatusConfirmed,
		OrderEventRequireContract: OrderStatusContractPending,
		OrderEventCancel:          OrderStatusCancelled,
	},
	OrderStatusContractPending: {
		OrderEventContractSigned: OrderStatusContractSigned,
		OrderEventCancel:         OrderStatusCancelled,
	},
	OrderStatusContractSigned: {
		OrderEventPay:    OrderStatusPaid,
		OrderEventCancel: OrderStatusCancelled,
	},
	OrderStatusConfirmed: {
		OrderEventPay:    OrderStatusPaid,
		OrderEventCancel: OrderStatusCancelled,
	},
	OrderStatusPaid: {
		OrderEventShip:    OrderStatusShipped,
		OrderEventDeliver: OrderStatusDelivered,
		OrderEventCancel:  OrderStatusCancelled,
	},
	OrderStatusShipped: {
		OrderEventDeliver: OrderStatusDelivered,
		OrderEventCancel:  OrderStatusCancelled,
	},
	OrderStatusDelivered: {
		OrderEventStart:  OrderStatusActive,
		OrderEventCancel: OrderStatusCancelled,
	},
	OrderStatusActive: {
		OrderEventReturn: OrderStatusReturned,
	},
	OrderStatusReturned: {
		OrderEventComplete: OrderStatusCompleted,
	},
}

// RentalWindow is the agreed rental period plus what actually happened.
type RentalWindow struct {
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	ActualStartDate *time.Time   `json:"actual_start_date,omitempty"`
	ActualEndDate   *time.Time   `json:"actual_end_date,omitempty"`
	DurationValue   int32        `json:"duration_value"`
	DurationUnit    DurationUnit `json:"duration_unit"`
}

// PricingSnapshot is captured from the product at order creation time and
// never recalculated afterwards.
type PricingSnapshot struct {
	RentalRate  int64 `json:"rental_rate"`
	Subtotal    int64 `json:"subtotal"`
	Deposit     int64 `json:"deposit"`
	DeliveryFee int64 `json:"delivery_fee"`
	Total       int64 `json:"total"`
}

// AdditionalCharges holds penalties assessed on return. Damage amounts are
// entered manually, never computed from evidence.
type AdditionalCharges struct {
	OvertimeDays   int32  `json:"overtime_days"`
	OvertimeAmount int64  `json:"overtime_amount"`
	DamageNote     string `json:"damage_note"`
	DamageAmount   int64  `json:"damage_amount"`
	Total          int64  `json:"total"`
}

type Cancellation struct {
	CancelledBy int32     `json:"cancelled_by"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason"`
}

type Order struct {
	ID              int32              `json:"id"`
	OrderNumber     string             `json:"order_number"`
	RenterID        int32              `json:"renter_id"`
	OwnerID         int32              `json:"owner_id"`
	ProductID       int32              `json:"product_id"`
	Rental          RentalWindow       `json:"rental"`
	Pricing         PricingSnapshot    `json:"pricing"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
	PaymentStatus   OrderPaymentStatus `json:"payment_status"`
	DeliveryMethod  DeliveryMethod     `json:"delivery_method"`
	DeliveryAddress string             `json:"delivery_address"`
	Status          OrderStatus        `json:"status"`
	ContractID      *int32             `json:"contract_id,omitempty"`
	Charges         *AdditionalCharges `json:"additional_charges,omitempty"`
	Cancellation    *Cancellation      `json:"cancellation,omitempty"`
	CreatedOn       time.Time          `json:"created_on"`
	UpdatedOn       time.Time          `json:"updated_on"`
}

// Apply advances the order along the transition table, rejecting any
// event not defined for the current status.
func (o *Order) Apply(event OrderEvent) error {
	next, ok := orderTransitions[o.Status][event]
	if !ok {
		return fmt.Errorf("%w: cannot %s order %s in status %s",
			ErrInvalidTransition, event, o.OrderNumber, o.Status)
	}
	o.Status = next
	return nil
}

// CanApply reports whether event is valid for the order's current status
// without mutating it.
func (o *Order) CanApply(event OrderEvent) bool {
	_, ok := orderTransitions[o.Status][event]
	return ok
}

// ContractRequiredThreshold is the order total at or above which a signed
// contract is mandatory.
const ContractRequiredThreshold int64 = 10_000_000

// RequiresContract decides at owner-confirmation time whether the order
// needs a co-signed contract before payment.
func RequiresContract(product *Product, total int64) bool {
	return total >= ContractRequiredThreshold || HighRiskCategories[product.CategorySlug]
}

// ClassifyDuration maps a day count to the coarse display unit. This is
// independent of the pricing tier actually applied.
func ClassifyDuration(days int32) DurationUnit {
	switch {
	case days >= 30:
		return DurationUnitMonth
	case days >= 7:
		return DurationUnitWeek
	default:
		return DurationUnitDay
	}
}
