package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"renthub-backend/internal/domain"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestRentalDays(t *testing.T) {
	assert.Equal(t, int32(1), RentalDays(day(0), day(0)), "same-day rental counts as one day")
	assert.Equal(t, int32(1), RentalDays(day(1), day(0)), "inverted range clamps to one day")
	assert.Equal(t, int32(3), RentalDays(day(0), day(3)))

	// Partial days round up.
	start := day(0)
	assert.Equal(t, int32(2), RentalDays(start, start.Add(25*time.Hour)))
}

func TestSubtotal_DailyOnly(t *testing.T) {
	p := &domain.Product{DailyRate: 1000}

	subtotal, months, weeks, rem := Subtotal(p, 10)
	assert.Equal(t, int64(10000), subtotal)
	assert.Equal(t, int32(0), months)
	assert.Equal(t, int32(0), weeks)
	assert.Equal(t, int32(10), rem)
}

func TestSubtotal_WeeklySplit(t *testing.T) {
	p := &domain.Product{DailyRate: 1000, WeeklyRate: 6000}

	subtotal, _, weeks, rem := Subtotal(p, 10)
	assert.Equal(t, int32(1), weeks)
	assert.Equal(t, int32(3), rem)
	assert.Equal(t, int64(6000+3*1000), subtotal)
}

func TestSubtotal_MonthlySplit(t *testing.T) {
	p := &domain.Product{DailyRate: 1000, WeeklyRate: 6000, MonthlyRate: 20000}

	subtotal, months, weeks, rem := Subtotal(p, 65)
	assert.Equal(t, int32(2), months)
	assert.Equal(t, int32(0), weeks)
	assert.Equal(t, int32(5), rem)
	assert.Equal(t, int64(2*20000+5*1000), subtotal)
}

func TestSubtotal_TierDiscountsNeverRaiseCost(t *testing.T) {
	p := &domain.Product{DailyRate: 1000, WeeklyRate: 6000, MonthlyRate: 20000}

	flat30, _, _, _ := Subtotal(&domain.Product{DailyRate: 1000}, 30)
	tiered30, _, _, _ := Subtotal(p, 30)
	assert.Less(t, tiered30, flat30)
}

func TestDepositFor(t *testing.T) {
	fixed := &domain.Product{DailyRate: 1000, FixedDeposit: 5000}
	assert.Equal(t, int64(5000), DepositFor(fixed, 100000))

	percent := &domain.Product{DailyRate: 1000}
	assert.Equal(t, int64(3000), DepositFor(percent, 10000), "default deposit is 30% of subtotal")
}

func TestQuoteRental(t *testing.T) {
	p := &domain.Product{DailyRate: 1000, DeliveryFee: 500}

	q := QuoteRental(p, day(0), day(5), p.DeliveryFee)
	assert.Equal(t, int32(5), q.Days)
	assert.Equal(t, int64(5000), q.Subtotal)
	assert.Equal(t, int64(1500), q.Deposit)
	assert.Equal(t, int64(500), q.DeliveryFee)
	assert.Equal(t, int64(7000), q.Total)
	assert.Equal(t, domain.DurationUnitDay, q.DurationUnit)
}

func TestQuoteRental_NegativeRatesTreatedAsZero(t *testing.T) {
	p := &domain.Product{DailyRate: -100}

	q := QuoteRental(p, day(0), day(3), -50)
	assert.Equal(t, int64(0), q.Subtotal)
	assert.Equal(t, int64(0), q.DeliveryFee)
	assert.Equal(t, int64(0), q.Total)
}

func TestOverdueDays(t *testing.T) {
	planned := day(10)

	assert.Equal(t, int32(0), OverdueDays(planned, planned), "on-time return has no overdue days")
	assert.Equal(t, int32(0), OverdueDays(planned, day(8)), "early return clamps to zero")
	assert.Equal(t, int32(3), OverdueDays(planned, day(13)))
	assert.Equal(t, int32(1), OverdueDays(planned, planned.Add(2*time.Hour)), "partial overdue days round up")
}

func TestOvertimeAmount(t *testing.T) {
	assert.Equal(t, int64(450000), OvertimeAmount(3, 100000), "overdue days bill at 1.5x the daily rate")
	assert.Equal(t, int64(0), OvertimeAmount(0, 100000))
}
