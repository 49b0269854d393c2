// Package pricing computes rental quotes from a product's rate schedule
// and a date range. All functions are pure; missing or negative rate data
// is substituted with zero rather than returned as an error.
package pricing

import (
	"time"

	"renthub-backend/internal/domain"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30

	// defaultDepositPercent applies when the product carries no fixed
	// deposit amount.
	defaultDepositPercent = 30
)

// Quote is the full cost breakdown captured into an order's pricing
// snapshot at creation time.
type Quote struct {
	Days          int32
	Months        int32
	Weeks         int32
	RemainderDays int32
	RentalRate    int64
	Subtotal      int64
	Deposit       int64
	DeliveryFee   int64
	Total         int64
	DurationUnit  domain.DurationUnit
}

// RentalDays computes ceil((end - start) / 1 day) over the half-open
// range [start, end), with a minimum of one day.
func RentalDays(start, end time.Time) int32 {
	d := end.Sub(start)
	if d <= 0 {
		return 1
	}
	days := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

func nonNegative(rate int64) int64 {
	if rate < 0 {
		return 0
	}
	return rate
}

// Subtotal applies the tiered schedule: monthly split at >= 30 days when a
// monthly rate exists, weekly split at >= 7 days when a weekly rate
// exists, flat daily otherwise.
func Subtotal(product *domain.Product, days int32) (subtotal int64, months, weeks, remainder int32) {
	daily := nonNegative(product.DailyRate)
	weekly := nonNegative(product.WeeklyRate)
	monthly := nonNegative(product.MonthlyRate)

	switch {
	case days >= daysPerMonth && monthly > 0:
		months = days / daysPerMonth
		remainder = days % daysPerMonth
		subtotal = int64(months)*monthly + int64(remainder)*daily
	case days >= daysPerWeek && weekly > 0:
		weeks = days / daysPerWeek
		remainder = days % daysPerWeek
		subtotal = int64(weeks)*weekly + int64(remainder)*daily
	default:
		remainder = days
		subtotal = int64(days) * daily
	}
	return subtotal, months, weeks, remainder
}

// DepositFor returns the product's fixed deposit when set, otherwise 30%
// of the subtotal.
func DepositFor(product *domain.Product, subtotal int64) int64 {
	if product.FixedDeposit > 0 {
		return product.FixedDeposit
	}
	return subtotal * defaultDepositPercent / 100
}

// QuoteRental prices a rental of product over [start, end) including the
// given delivery fee. The duration unit is classified by the same day
// thresholds for display and may disagree with the pricing tier applied.
func QuoteRental(product *domain.Product, start, end time.Time, deliveryFee int64) Quote {
	days := RentalDays(start, end)
	subtotal, months, weeks, remainder := Subtotal(product, days)
	deposit := DepositFor(product, subtotal)
	fee := nonNegative(deliveryFee)

	return Quote{
		Days:          days,
		Months:        months,
		Weeks:         weeks,
		RemainderDays: remainder,
		RentalRate:    nonNegative(product.DailyRate),
		Subtotal:      subtotal,
		Deposit:       deposit,
		DeliveryFee:   fee,
		Total:         subtotal + deposit + fee,
		DurationUnit:  domain.ClassifyDuration(days),
	}
}

// OverdueDays computes ceil over 24h buckets of how far actualEnd ran past
// plannedEnd, clamped at zero.
func OverdueDays(plannedEnd, actualEnd time.Time) int32 {
	d := actualEnd.Sub(plannedEnd)
	if d <= 0 {
		return 0
	}
	days := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// OvertimeAmount bills overdue days at 1.5x the daily rental rate.
func OvertimeAmount(overdueDays int32, rentalRate int64) int64 {
	return int64(overdueDays) * rentalRate * 3 / 2
}
