package domain

import "time"

type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "AVAILABLE"
	ProductStatusRented      ProductStatus = "RENTED"
	ProductStatusUnavailable ProductStatus = "UNAVAILABLE"
)

// Category slugs that always require a signed contract regardless of
// order value.
var HighRiskCategories = map[string]bool{
	"electronics": true,
	"vehicles":    true,
	"machinery":   true,
	"jewelry":     true,
}

type Product struct {
	ID           int32  `json:"id"`
	OwnerID      int32  `json:"owner_id"`
	Owner        *User  `json:"owner,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategorySlug string `json:"category_slug"`
	// Rate schedule. DailyRate is required in practice; weekly/monthly
	// are optional discounts and zero means "not offered".
	DailyRate   int64 `json:"daily_rate"`
	WeeklyRate  int64 `json:"weekly_rate"`
	MonthlyRate int64 `json:"monthly_rate"`
	// FixedDeposit overrides the default 30%-of-subtotal deposit when > 0.
	FixedDeposit int64         `json:"fixed_deposit"`
	DeliveryFee  int64         `json:"delivery_fee"`
	Status       ProductStatus `json:"status"`
	CreatedOn    time.Time     `json:"created_on"`
	UpdatedOn    time.Time     `json:"updated_on"`
	DeletedOn    *time.Time    `json:"deleted_on,omitempty"`
}
