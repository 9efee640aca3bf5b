package model

import (
	"time"

	"github.com/google/uuid"
)

// Change types recorded in the inventory ledger.
const (
	AuditSale         = "SALE"
	AuditRestock      = "RESTOCK"
	AuditEdit         = "EDIT"
	AuditExcelSync    = "EXCEL_SYNC"
	AuditDelete       = "DELETE"
	AuditNotification = "NOTIFICATION" // zero-delta marker: an alert was sent
)

// InventoryAuditEntry is one append-only ledger row per quantity-affecting
// event. Rows are never mutated or deleted. ProductID is nil for system
// markers (NOTIFICATION) that do not reference a concrete product.
type InventoryAuditEntry struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       *uuid.UUID `gorm:"type:uuid;index"`
	ItemCode        string     `gorm:"not null"`
	Description     string     `gorm:"not null"`
	ChangeType      string     `gorm:"not null;index"`
	QuantityChanged int        `gorm:"not null"` // signed delta: negative = stock out
	BeforeQuantity  int        `gorm:"not null"`
	AfterQuantity   int        `gorm:"not null"`
	UserID          *uuid.UUID `gorm:"type:uuid"`
	Notes           string
	CreatedAt       time.Time
}

// TableName overrides GORM's pluralization (inventory_audit_entries → inventory_audit).
func (InventoryAuditEntry) TableName() string { return "inventory_audit" }
