package dto

// AuditFilter is bound from the query string of GET /v1/audit.
type AuditFilter struct {
	ProductID  string `form:"product_id"  validate:"omitempty,uuid"`
	ChangeType string `form:"change_type" validate:"omitempty,oneof=SALE RESTOCK EDIT EXCEL_SYNC DELETE NOTIFICATION"`
	Limit      int    `form:"limit,default=200" validate:"min=1,max=1000"`
}

type AuditEntryResponse struct {
	ID              string `json:"id"`
	ProductID       *string `json:"product_id,omitempty"`
	ItemCode        string `json:"item_code"`
	Description     string `json:"description"`
	ChangeType      string `json:"change_type"`
	QuantityChanged int    `json:"quantity_changed"`
	BeforeQuantity  int    `json:"before_quantity"`
	AfterQuantity   int    `json:"after_quantity"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"created_at"`
}
