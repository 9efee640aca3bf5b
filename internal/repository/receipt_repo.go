package repository

import (
	"context"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"gorm.io/gorm"
)

// ReceiptRepository stores immutable sale snapshots. There is deliberately no
// update or delete: a receipt, once written, is read-only history.
type ReceiptRepository interface {
	Create(ctx context.Context, r *model.Receipt) error
	FindByNumber(ctx context.Context, receiptNumber string) (*model.Receipt, error)
	List(ctx context.Context, limit int) ([]model.Receipt, error)
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) Create(ctx context.Context, rec *model.Receipt) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *receiptRepo) FindByNumber(ctx context.Context, receiptNumber string) (*model.Receipt, error) {
	var rec model.Receipt
	err := r.db.WithContext(ctx).Where("receipt_number = ?", receiptNumber).First(&rec).Error
	return &rec, err
}

func (r *receiptRepo) List(ctx context.Context, limit int) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&receipts).Error
	return receipts, err
}
