package dto

import "github.com/shopspring/decimal"

type CustomerResponse struct {
	ID                  string          `json:"id"`
	PhoneNumber         string          `json:"phone_number"`
	TotalPurchasesCount int             `json:"total_purchases_count"`
	MpesaPurchasesCount int             `json:"mpesa_purchases_count"`
	TotalSpent          decimal.Decimal `json:"total_spent"`
	TotalMpesaSpent     decimal.Decimal `json:"total_mpesa_spent"`
	EligibleForDiscount bool            `json:"eligible_for_discount"`
	DiscountPercentage  decimal.Decimal `json:"discount_percentage"`
	LastPurchaseAt      *string         `json:"last_purchase_at,omitempty"`
}

// CustomerFilter is bound from the query string of GET /v1/customers.
type CustomerFilter struct {
	MinPurchases int `form:"min_purchases" validate:"min=0"`
}

// UpdateDiscountRequest sets a customer's loyalty discount eligibility.
type UpdateDiscountRequest struct {
	Eligible           bool            `json:"eligible"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" validate:"min=0,max=100"`
}
