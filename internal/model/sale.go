package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PaymentCash  = "cash"
	PaymentMpesa = "mpesa"
)

// Sale is the append-only financial header of a completed checkout. It is
// created once, inside the commit transaction, and never updated afterward.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptNumber string    `gorm:"uniqueIndex;not null"`
	SellerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	PaymentMethod string     `gorm:"not null"` // cash | mpesa
	MpesaReference *string
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalProfit    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ItemsCount     int             `gorm:"not null"`
	ManualDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt      time.Time

	Items    []SaleItem `gorm:"foreignKey:SaleID"`
	Seller   *User      `gorm:"foreignKey:SellerID"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
}

// SaleItem snapshots the product code and description at sale time so that
// historical receipts stay stable even if the product is later edited.
// Invariants: TotalPrice = UnitPrice × Quantity and
// Profit = (UnitPrice − buying price at sale time) × Quantity, exactly.
type SaleItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemCode        string    `gorm:"not null"`
	Description     string    `gorm:"not null"`
	Quantity        int       `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Profit          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountApplied bool            `gorm:"not null;default:false"`
}
