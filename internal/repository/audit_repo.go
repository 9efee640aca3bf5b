package repository

import (
	"context"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"gorm.io/gorm"
)

// AuditRepository appends to and reads the inventory ledger. Append-only by
// construction: no update or delete methods exist.
type AuditRepository interface {
	Append(ctx context.Context, e *model.InventoryAuditEntry) error
	List(ctx context.Context, filter dto.AuditFilter) ([]model.InventoryAuditEntry, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Append(ctx context.Context, e *model.InventoryAuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *auditRepo) List(ctx context.Context, filter dto.AuditFilter) ([]model.InventoryAuditEntry, error) {
	var entries []model.InventoryAuditEntry
	q := r.db.WithContext(ctx).Model(&model.InventoryAuditEntry{})
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.ChangeType != "" {
		q = q.Where("change_type = ?", filter.ChangeType)
	}
	err := q.Order("created_at DESC").Limit(filter.Limit).Find(&entries).Error
	return entries, err
}
