package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Quantity carries a database CHECK (quantity >= 0)
// and is only ever decremented through the guarded decrement in the product
// repository; a plain read-then-write on this column is a race under
// concurrent sellers.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemCode    string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"index;not null"`
	Quantity    int       `gorm:"not null;default:0"`
	BuyingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RegularPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// DiscountPrice is the per-unit price charged once a line's quantity
	// reaches DiscountThreshold. The tier is all-or-nothing.
	DiscountPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountThreshold int             `gorm:"not null;default:7"`
	LowStockThreshold int             `gorm:"not null;default:5"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
