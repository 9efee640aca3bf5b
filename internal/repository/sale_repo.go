package repository

import (
	"context"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx inserts the sale header and its items inside the caller's
	// transaction. Sales are append-only: there is no update path.
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error)
	ListItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error)
	// CountItemsByProduct guards product deletion: a product referenced by any
	// sale line is never deleted.
	CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("Seller").Preload("Customer").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Preload("Seller").Preload("Customer")

	if filter.StartDate != "" {
		q = q.Where("sales.created_at::date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("sales.created_at::date <= ?", filter.EndDate)
	}
	if filter.PaymentMethod != "" && filter.PaymentMethod != "all" {
		q = q.Where("sales.payment_method = ?", filter.PaymentMethod)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
			Where("sales.receipt_number ILIKE ? OR customers.phone_number ILIKE ?", like, like)
	}

	err := q.Order("sales.created_at DESC").Limit(500).Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Find(&items).Error
	return items, err
}

func (r *saleRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).Preload("Seller").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
