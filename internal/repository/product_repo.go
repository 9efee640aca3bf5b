package repository

import (
	"context"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByItemCode(ctx context.Context, code string) (*model.Product, error)
	Search(ctx context.Context, query string, limit int) ([]model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies a signed delta outside the sale path (restock,
	// manual correction). Negative results are rejected by the DB CHECK.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (newQty int, err error)

	// DecrementStockGuarded is the compare-and-decrement at the heart of the
	// sale commit: quantity is reduced by qty only if qty units are still on
	// hand at write time. applied=false means the guard refused — the earlier
	// read-check passed against a stale quantity and the sale must abort.
	// Callers must pass the live transaction handle.
	DecrementStockGuarded(tx *gorm.DB, id uuid.UUID, qty int) (newQty int, applied bool, err error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByItemCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("item_code = ?", code).First(&p).Error
	return &p, err
}

func (r *productRepo) Search(ctx context.Context, query string, limit int) ([]model.Product, error) {
	var products []model.Product
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("item_code ILIKE ? OR description ILIKE ?", like, like).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.LowStock {
		q = q.Where("quantity <= low_stock_threshold")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("description ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	// Out-of-stock first, then near-empty, then the rest.
	err := r.db.WithContext(ctx).
		Where("quantity <= low_stock_threshold").
		Order("CASE WHEN quantity = 0 THEN 1 WHEN quantity <= 2 THEN 2 ELSE 3 END, quantity ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("item_code ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var newQty int
	res := r.db.WithContext(ctx).Raw(`
		UPDATE products
		   SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?
		 RETURNING quantity`, delta, id).Scan(&newQty)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return newQty, nil
}

func (r *productRepo) DecrementStockGuarded(tx *gorm.DB, id uuid.UUID, qty int) (int, bool, error) {
	// The WHERE quantity >= ? predicate and the UPDATE happen under the same
	// row lock, so two concurrent sales of the same product serialize here and
	// the loser observes zero rows affected instead of driving stock negative.
	var newQty int
	res := tx.Raw(`
		UPDATE products
		   SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity >= ?
		 RETURNING quantity`, qty, id, qty).Scan(&newQty)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return newQty, true, nil
}
