package service_test

// In-memory repository stubs plus a rollback-capable TxManager fake. The fake
// snapshots the stub state when a transaction opens and restores it when the
// body errors, so aborted commits behave like a real database rollback.

import (
	"context"
	"sync"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Transaction fake ─────────────────────────────────────────────────────────

// stubTxManager serializes transactions with its own mutex (the same effect
// the database's row locks have on rival commits) and undoes every write made
// inside an aborted body by restoring the pre-transaction snapshot.
type stubTxManager struct {
	mu        sync.Mutex
	products  *stubProductRepo
	sales     *stubSaleRepo
	customers *stubCustomerRepo
}

func (m *stubTxManager) Run(_ context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	if err := fn(nil); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type txSnapshot struct {
	products  map[uuid.UUID]*model.Product
	sales     map[uuid.UUID]*model.Sale
	customers map[uuid.UUID]*model.Customer
	byPhone   map[string]uuid.UUID
	discounts []model.CustomerDiscount
}

func (m *stubTxManager) snapshot() txSnapshot {
	m.products.mu.Lock()
	m.sales.mu.Lock()
	m.customers.mu.Lock()
	defer m.products.mu.Unlock()
	defer m.sales.mu.Unlock()
	defer m.customers.mu.Unlock()

	snap := txSnapshot{
		products:  make(map[uuid.UUID]*model.Product, len(m.products.products)),
		sales:     make(map[uuid.UUID]*model.Sale, len(m.sales.sales)),
		customers: make(map[uuid.UUID]*model.Customer, len(m.customers.customers)),
		byPhone:   make(map[string]uuid.UUID, len(m.customers.byPhone)),
		discounts: append([]model.CustomerDiscount(nil), m.customers.discounts...),
	}
	for id, p := range m.products.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, s := range m.sales.sales {
		cp := *s
		cp.Items = append([]model.SaleItem(nil), s.Items...)
		snap.sales[id] = &cp
	}
	for id, c := range m.customers.customers {
		cp := *c
		snap.customers[id] = &cp
	}
	for phone, id := range m.customers.byPhone {
		snap.byPhone[phone] = id
	}
	return snap
}

func (m *stubTxManager) restore(snap txSnapshot) {
	m.products.mu.Lock()
	m.sales.mu.Lock()
	m.customers.mu.Lock()
	defer m.products.mu.Unlock()
	defer m.sales.mu.Unlock()
	defer m.customers.mu.Unlock()

	m.products.products = snap.products
	m.sales.sales = snap.sales
	m.customers.customers = snap.customers
	m.customers.byPhone = snap.byPhone
	m.customers.discounts = snap.discounts
}

var _ service.TxManager = (*stubTxManager)(nil)

// ── Product repository ───────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	// inflate makes FindByID over-report quantity by N units, simulating a
	// stale read between the pre-check and the guarded decrement.
	inflate map[uuid.UUID]int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		inflate:  make(map[uuid.UUID]int),
	}
}

func (r *stubProductRepo) seed(code, desc string, qty int, buying, regular, discount int64, threshold int) *model.Product {
	p := &model.Product{
		ID:                uuid.New(),
		ItemCode:          code,
		Description:       desc,
		Quantity:          qty,
		BuyingPrice:       decimal.NewFromInt(buying),
		RegularPrice:      decimal.NewFromInt(regular),
		DiscountPrice:     decimal.NewFromInt(discount),
		DiscountThreshold: threshold,
		LowStockThreshold: 5,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.ItemCode == p.ItemCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Quantity += r.inflate[id]
	return &cp, nil
}

func (r *stubProductRepo) FindByItemCode(_ context.Context, code string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ItemCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) Search(_ context.Context, _ string, _ int) ([]model.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	return nil, 0, nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Quantity <= p.LowStockThreshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.Quantity += delta
	return p.Quantity, nil
}

func (r *stubProductRepo) DecrementStockGuarded(_ *gorm.DB, id uuid.UUID, qty int) (int, bool, error) {
	// Compare-and-decrement under the mutex, mirroring the row lock the real
	// UPDATE ... WHERE quantity >= ? takes.
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, false, nil
	}
	if p.Quantity < qty {
		return 0, false, nil
	}
	p.Quantity -= qty
	return p.Quantity, true, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Sale repository ──────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	s.CreatedAt = time.Now()
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) ListItems(_ context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[saleID]
	if !ok {
		return nil, nil
	}
	return s.Items, nil
}

func (r *stubSaleRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) CountItemsByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sales {
		for _, it := range s.Items {
			if it.ProductID == productID {
				n++
			}
		}
	}
	return n, nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Customer repository ──────────────────────────────────────────────────────

type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*model.Customer
	byPhone   map[string]uuid.UUID
	discounts []model.CustomerDiscount
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		customers: make(map[uuid.UUID]*model.Customer),
		byPhone:   make(map[string]uuid.UUID),
	}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	r.byPhone[c.PhoneNumber] = c.ID
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPhone[phone]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.customers[id], nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ int) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) UpdateDiscount(_ context.Context, id uuid.UUID, eligible bool, percentage decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.EligibleForDiscount = eligible
	c.DiscountPercentage = percentage
	return nil
}

func (r *stubCustomerRepo) ApplyPurchaseTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal, mpesa bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalPurchasesCount++
	c.TotalSpent = c.TotalSpent.Add(amount)
	if mpesa {
		c.MpesaPurchasesCount++
		c.TotalMpesaSpent = c.TotalMpesaSpent.Add(amount)
	}
	now := time.Now()
	c.LastPurchaseAt = &now
	return nil
}

func (r *stubCustomerRepo) CreateDiscountTx(_ *gorm.DB, d *model.CustomerDiscount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discounts = append(r.discounts, *d)
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Receipt repository ───────────────────────────────────────────────────────

type stubReceiptRepo struct {
	mu       sync.Mutex
	receipts map[string]*model.Receipt
}

func newStubReceiptRepo() *stubReceiptRepo {
	return &stubReceiptRepo{receipts: make(map[string]*model.Receipt)}
}

func (r *stubReceiptRepo) Create(_ context.Context, rec *model.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.receipts[rec.ReceiptNumber]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.receipts[rec.ReceiptNumber] = rec
	return nil
}

func (r *stubReceiptRepo) FindByNumber(_ context.Context, receiptNumber string) (*model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.receipts[receiptNumber]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (r *stubReceiptRepo) List(_ context.Context, _ int) ([]model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Receipt, 0, len(r.receipts))
	for _, rec := range r.receipts {
		out = append(out, *rec)
	}
	return out, nil
}

var _ repository.ReceiptRepository = (*stubReceiptRepo)(nil)

// ── Audit repository ─────────────────────────────────────────────────────────

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []model.InventoryAuditEntry
}

func (r *stubAuditRepo) Append(_ context.Context, e *model.InventoryAuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, filter dto.AuditFilter) ([]model.InventoryAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryAuditEntry
	for _, e := range r.entries {
		if filter.ChangeType != "" && e.ChangeType != filter.ChangeType {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubAuditRepo) byType(changeType string) []model.InventoryAuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryAuditEntry
	for _, e := range r.entries {
		if e.ChangeType == changeType {
			out = append(out, e)
		}
	}
	return out
}

var _ repository.AuditRepository = (*stubAuditRepo)(nil)
