package service

import (
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"github.com/shopspring/decimal"
)

// LinePrice is the authoritative pricing of one cart line. Client-supplied
// price fields are never trusted; every line is re-derived from the product
// row through PriceLine.
type LinePrice struct {
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal
	Profit          decimal.Decimal
	DiscountApplied bool
}

// PriceLine resolves the effective unit price for qty units of p. The tiered
// discount is all-or-nothing: once qty reaches the product's threshold every
// unit is charged at the discount price, below it every unit at the regular
// price. Pure function — no side effects, deterministic for identical inputs.
func PriceLine(p *model.Product, qty int) LinePrice {
	unit := p.RegularPrice
	discounted := qty >= p.DiscountThreshold
	if discounted {
		unit = p.DiscountPrice
	}
	n := decimal.NewFromInt(int64(qty))
	return LinePrice{
		UnitPrice:       unit,
		Total:           unit.Mul(n),
		Profit:          unit.Sub(p.BuyingPrice).Mul(n),
		DiscountApplied: discounted,
	}
}
