package service_test

import (
	"testing"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testProduct() *model.Product {
	return &model.Product{
		ItemCode:          "CEM-001",
		Description:       "Cement 50kg",
		Quantity:          100,
		BuyingPrice:       decimal.NewFromInt(60),
		RegularPrice:      decimal.NewFromInt(100),
		DiscountPrice:     decimal.NewFromInt(80),
		DiscountThreshold: 7,
	}
}

func TestPriceLine_BelowThreshold(t *testing.T) {
	p := testProduct()

	line := service.PriceLine(p, 6)

	assert.False(t, line.DiscountApplied)
	assert.Equal(t, "100", line.UnitPrice.String())
	assert.Equal(t, "600", line.Total.String())
	assert.Equal(t, "240", line.Profit.String()) // (100-60) × 6
}

func TestPriceLine_AtThreshold(t *testing.T) {
	p := testProduct()

	// The discount is all-or-nothing: at the threshold every unit is charged
	// the discount price, so 7 units cost less than 6.
	line := service.PriceLine(p, 7)

	assert.True(t, line.DiscountApplied)
	assert.Equal(t, "80", line.UnitPrice.String())
	assert.Equal(t, "560", line.Total.String())
	assert.Equal(t, "140", line.Profit.String()) // (80-60) × 7
}

func TestPriceLine_AboveThreshold(t *testing.T) {
	p := testProduct()

	line := service.PriceLine(p, 20)

	assert.True(t, line.DiscountApplied)
	assert.Equal(t, "1600", line.Total.String())
}

func TestPriceLine_Deterministic(t *testing.T) {
	p := testProduct()

	a := service.PriceLine(p, 5)
	b := service.PriceLine(p, 5)

	assert.Equal(t, a, b)
}
