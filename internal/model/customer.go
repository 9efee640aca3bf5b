package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a loyalty record keyed by normalized phone number
// (whitespace stripped, leading "0" replaced by "254"). Created lazily the
// first time an unseen phone appears on a sale; aggregates are updated inside
// the same transaction as the sale they belong to.
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PhoneNumber string    `gorm:"uniqueIndex;not null"`

	TotalPurchasesCount int `gorm:"not null;default:0"`
	MpesaPurchasesCount int `gorm:"not null;default:0"`
	TotalSpent          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalMpesaSpent     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	EligibleForDiscount bool            `gorm:"not null;default:false"`
	DiscountPercentage  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	LastPurchaseAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CustomerDiscount is historical proof of a loyalty discount actually applied
// to one sale. The customer's percentage may change later without retroactively
// altering past receipts.
type CustomerDiscount struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt  time.Time
}
