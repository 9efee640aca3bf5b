package repository

import (
	"context"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	// FindByPhone expects an already-normalized phone number.
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	List(ctx context.Context, minPurchases int) ([]model.Customer, error)
	UpdateDiscount(ctx context.Context, id uuid.UUID, eligible bool, percentage decimal.Decimal) error

	// ApplyPurchaseTx bumps the running aggregates for one committed sale,
	// inside the sale's transaction. mpesa toggles the mpesa-specific counters.
	ApplyPurchaseTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal, mpesa bool) error
	CreateDiscountTx(tx *gorm.DB, d *model.CustomerDiscount) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, minPurchases int) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if minPurchases > 0 {
		// minPurchases is a floor on the M-Pesa purchase count specifically,
		// not on total_purchases_count; loyalty standing is measured in
		// mpesa-tracked sales.
		q = q.Where("mpesa_purchases_count >= ?", minPurchases)
	}
	err := q.Order("total_spent DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) UpdateDiscount(ctx context.Context, id uuid.UUID, eligible bool, percentage decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"eligible_for_discount": eligible,
		"discount_percentage":   percentage,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepo) ApplyPurchaseTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal, mpesa bool) error {
	mpesaInc := 0
	mpesaSpent := decimal.Zero
	if mpesa {
		mpesaInc = 1
		mpesaSpent = amount
	}
	return tx.Model(&model.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_purchases_count": gorm.Expr("total_purchases_count + 1"),
		"total_spent":           gorm.Expr("total_spent + ?", amount),
		"mpesa_purchases_count": gorm.Expr("mpesa_purchases_count + ?", mpesaInc),
		"total_mpesa_spent":     gorm.Expr("total_mpesa_spent + ?", mpesaSpent),
		"last_purchase_at":      time.Now(),
	}).Error
}

func (r *customerRepo) CreateDiscountTx(tx *gorm.DB, d *model.CustomerDiscount) error {
	return tx.Create(d).Error
}
