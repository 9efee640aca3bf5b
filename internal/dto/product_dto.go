package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	ItemCode          string          `json:"item_code"    validate:"required"`
	Description       string          `json:"description"  validate:"required"`
	Quantity          int             `json:"quantity"     validate:"min=0"`
	BuyingPrice       decimal.Decimal `json:"buying_price"   validate:"min=0"`
	RegularPrice      decimal.Decimal `json:"regular_price"  validate:"min=0"`
	DiscountPrice     decimal.Decimal `json:"discount_price" validate:"min=0"`
	DiscountThreshold int             `json:"discount_threshold" validate:"omitempty,min=1"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Description       string          `json:"description"  validate:"required"`
	Quantity          int             `json:"quantity"     validate:"min=0"`
	BuyingPrice       decimal.Decimal `json:"buying_price"   validate:"min=0"`
	RegularPrice      decimal.Decimal `json:"regular_price"  validate:"min=0"`
	DiscountPrice     decimal.Decimal `json:"discount_price" validate:"min=0"`
	DiscountThreshold int             `json:"discount_threshold" validate:"omitempty,min=1"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// AdjustStockRequest restocks (positive delta) or corrects (negative delta)
// a product outside the sale path.
type AdjustStockRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Note  string `json:"note"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Page     int  `form:"page,default=1"    validate:"min=1"`
	Limit    int  `form:"limit,default=100" validate:"min=1,max=500"`
	LowStock bool `form:"low_stock"`
}

type ProductResponse struct {
	ID                string          `json:"id"`
	ItemCode          string          `json:"item_code"`
	Description       string          `json:"description"`
	Quantity          int             `json:"quantity"`
	BuyingPrice       decimal.Decimal `json:"buying_price"`
	RegularPrice      decimal.Decimal `json:"regular_price"`
	DiscountPrice     decimal.Decimal `json:"discount_price"`
	DiscountThreshold int             `json:"discount_threshold"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ProfitPerItem     decimal.Decimal `json:"profit_per_item"`
	UpdatedAt         string          `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
