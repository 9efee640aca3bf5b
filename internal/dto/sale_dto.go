package dto

import "github.com/shopspring/decimal"

// ─── Checkout ────────────────────────────────────────────────────────────────

// CartLine references one product and a quantity. Clients may send price
// fields alongside; the engine re-derives every price authoritatively and
// ignores anything client-computed.
type CartLine struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CheckoutRequest struct {
	Items          []CartLine      `json:"items"           validate:"required,min=1,dive"`
	PaymentMethod  string          `json:"payment_method"  validate:"required,oneof=cash mpesa"`
	MpesaReference *string         `json:"mpesa_reference"`
	CustomerPhone  *string         `json:"customer_phone"`
	ManualDiscount decimal.Decimal `json:"manual_discount"`
}

type CheckoutResponse struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalProfit   decimal.Decimal `json:"total_profit"`

	// Discount breakdown
	OriginalAmount     decimal.Decimal `json:"original_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ManualDiscount     decimal.Decimal `json:"manual_discount"`

	Receipt ReceiptData `json:"receipt"`
}

// ─── Receipt snapshot ────────────────────────────────────────────────────────

// ReceiptItem is one line of the immutable receipt snapshot, using the prices
// actually charged.
type ReceiptItem struct {
	ItemCode        string          `json:"item_code"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	DiscountApplied bool            `json:"discount_applied"`
}

// ReceiptData is the full snapshot persisted per completed sale. It carries
// enough to regenerate a printable receipt without re-querying mutable state.
type ReceiptData struct {
	ReceiptNumber      string          `json:"receipt_number"`
	SellerName         string          `json:"seller_name"`
	Items              []ReceiptItem   `json:"items"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	OriginalAmount     decimal.Decimal `json:"original_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ManualDiscount     decimal.Decimal `json:"manual_discount"`
	PaymentMethod      string          `json:"payment_method"`
	MpesaReference     *string         `json:"mpesa_reference,omitempty"`
	CustomerPhone      *string         `json:"customer_phone,omitempty"`
	CreatedAt          string          `json:"created_at"` // RFC 3339
}

// ─── History ─────────────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	StartDate     string `form:"start_date"`     // YYYY-MM-DD
	EndDate       string `form:"end_date"`       // YYYY-MM-DD
	PaymentMethod string `form:"payment_method"` // cash | mpesa | all
	Search        string `form:"search"`         // receipt number or customer phone
}

type SaleListItem struct {
	ID             string          `json:"id"`
	ReceiptNumber  string          `json:"receipt_number"`
	SellerName     string          `json:"seller_name"`
	CustomerPhone  *string         `json:"customer_phone,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	MpesaReference *string         `json:"mpesa_reference,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	ItemsCount     int             `json:"items_count"`
	ManualDiscount decimal.Decimal `json:"manual_discount"`
	CreatedAt      string          `json:"created_at"`
}

type SaleItemResponse struct {
	ItemCode        string          `json:"item_code"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Profit          decimal.Decimal `json:"profit"`
	DiscountApplied bool            `json:"discount_applied"`
}
