package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	products  *stubProductRepo
	sales     *stubSaleRepo
	customers *stubCustomerRepo
	receipts  *stubReceiptRepo
	audits    *stubAuditRepo
	svc       service.SaleService
	sellerID  uuid.UUID
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		products:  newStubProductRepo(),
		sales:     newStubSaleRepo(),
		customers: newStubCustomerRepo(),
		receipts:  newStubReceiptRepo(),
		audits:    &stubAuditRepo{},
		sellerID:  uuid.New(),
	}
	customerSvc := service.NewCustomerService(f.customers, f.sales)
	txm := &stubTxManager{products: f.products, sales: f.sales, customers: f.customers}
	f.svc = service.NewSaleService(
		txm, f.sales, f.products, f.customers, f.receipts,
		customerSvc, service.NewLedger(f.audits), nil,
	)
	return f
}

func cartLine(p *model.Product, qty int) dto.CartLine {
	return dto.CartLine{ProductID: p.ID.String(), Quantity: qty}
}

func TestCheckout_Success(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)
	nails := f.products.seed("NLS-3IN", "Nails 3 inch kg", 50, 120, 180, 160, 10)

	resp, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane Wanjiru", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 2), cartLine(nails, 5)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// 2×750 + 5×180, both below their discount thresholds.
	assert.Equal(t, "2400", resp.TotalAmount.String())
	assert.Equal(t, "600", resp.TotalProfit.String())
	assert.Equal(t, "2400", resp.OriginalAmount.String())
	assert.True(t, resp.DiscountAmount.IsZero())
	assert.True(t, resp.ManualDiscount.IsZero())
	assert.Contains(t, resp.ReceiptNumber, "RCP-")

	// Stock decremented.
	got, err := f.products.FindByID(context.Background(), cement.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, got.Quantity)
	got, err = f.products.FindByID(context.Background(), nails.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, got.Quantity)

	// Sale header and items persisted with price snapshots.
	saleID := uuid.MustParse(resp.ID)
	sale, err := f.sales.FindByID(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, resp.ReceiptNumber, sale.ReceiptNumber)
	assert.Equal(t, f.sellerID, sale.SellerID)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "CEM-001", sale.Items[0].ItemCode)
	assert.Equal(t, "750", sale.Items[0].UnitPrice.String())
	assert.Equal(t, "1500", sale.Items[0].TotalPrice.String())

	// One ledger row per line, negative delta, consistent before/after.
	saleEntries := f.audits.byType(model.AuditSale)
	require.Len(t, saleEntries, 2)
	for _, e := range saleEntries {
		assert.Less(t, e.QuantityChanged, 0)
		assert.Equal(t, e.BeforeQuantity+e.QuantityChanged, e.AfterQuantity)
		assert.Contains(t, e.Notes, resp.ReceiptNumber)
	}

	// Receipt snapshot stored and readable.
	rec, err := f.receipts.FindByNumber(context.Background(), resp.ReceiptNumber)
	require.NoError(t, err)
	assert.Equal(t, saleID, rec.SaleID)
	assert.NotEmpty(t, rec.Data)
	assert.Equal(t, "Jane Wanjiru", resp.Receipt.SellerName)
	assert.Len(t, resp.Receipt.Items, 2)
}

func TestCheckout_TierDiscountAtThreshold(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)

	resp, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 7)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// All 7 units at the discount price, not just the marginal ones.
	assert.Equal(t, "4900", resp.TotalAmount.String())
	assert.Equal(t, "700", resp.TotalProfit.String())
	require.Len(t, resp.Receipt.Items, 1)
	assert.True(t, resp.Receipt.Items[0].DiscountApplied)
	assert.Equal(t, "700", resp.Receipt.Items[0].UnitPrice.String())
}

func TestCheckout_Validation(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)

	_, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.ErrorContains(t, err, "at least one item")

	_, err = f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 1)},
		PaymentMethod: "card",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid payment method")

	_, err = f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 1)},
		PaymentMethod: model.PaymentMpesa,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "phone number required for M-Pesa")

	// Nothing was written on any of the rejected requests.
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.audits.entries)
}

func TestCheckout_ProductNotFound(t *testing.T) {
	f := newSaleFixture()

	_, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{{ProductID: uuid.NewString(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestCheckout_InsufficientStockPreCheck(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 3, 600, 750, 700, 7)

	_, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 5)},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.ErrorContains(t, err, "requested 5, available 3")

	got, _ := f.products.FindByID(context.Background(), cement.ID)
	assert.Equal(t, 3, got.Quantity)
	assert.Empty(t, f.sales.sales)
}

func TestCheckout_GuardedDecrementAbortsOnStaleRead(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 3, 600, 750, 700, 7)
	// FindByID over-reports by 5, so the pre-check passes on a quantity the
	// guarded decrement will refuse.
	f.products.inflate[cement.ID] = 5

	_, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 6)},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.ErrorContains(t, err, "no longer available")

	// The abort left no trace: no sale, no ledger rows, no receipt, stock intact.
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.audits.entries)
	assert.Empty(t, f.receipts.receipts)
	delete(f.products.inflate, cement.ID)
	got, _ := f.products.FindByID(context.Background(), cement.ID)
	assert.Equal(t, 3, got.Quantity)
}

func TestCheckout_AbortRestoresEarlierLineDecrements(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)
	nails := f.products.seed("NLS-3IN", "Nails 3 inch kg", 3, 120, 180, 160, 10)
	// Second line passes the pre-check on an over-reported quantity, then the
	// guarded decrement refuses — after the first line already decremented.
	f.products.inflate[nails.ID] = 5

	_, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 2), cartLine(nails, 6)},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))

	// The first line's decrement must not survive the abort.
	delete(f.products.inflate, nails.ID)
	got, _ := f.products.FindByID(context.Background(), cement.ID)
	assert.Equal(t, 20, got.Quantity)
	got, _ = f.products.FindByID(context.Background(), nails.ID)
	assert.Equal(t, 3, got.Quantity)
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.audits.entries)
	assert.Empty(t, f.receipts.receipts)
}

func TestCheckout_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 10, 600, 750, 700, 7)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
				Items:         []dto.CartLine{cartLine(cement, 6)},
				PaymentMethod: model.PaymentCash,
			})
		}(i)
	}
	wg.Wait()

	// Exactly one of the two rival sales succeeds; 10 − 6 leaves 4, and the
	// loser cannot drive the count to −2.
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
		}
	}
	assert.Equal(t, 1, succeeded)
	got, _ := f.products.FindByID(context.Background(), cement.ID)
	assert.Equal(t, 4, got.Quantity)
	assert.Len(t, f.sales.sales, 1)
	assert.Len(t, f.audits.byType(model.AuditSale), 1)
}

func TestCheckout_RetryProducesSecondSale(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 10, 600, 750, 700, 7)

	req := dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 2)},
		PaymentMethod: model.PaymentCash,
	}
	first, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", req)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond) // receipt numbers are millisecond-derived
	second, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", req)
	require.NoError(t, err)

	// A client retry is a new sale, never an in-place update.
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.ReceiptNumber, second.ReceiptNumber)
	assert.Len(t, f.sales.sales, 2)
	got, _ := f.products.FindByID(context.Background(), cement.ID)
	assert.Equal(t, 6, got.Quantity)
}

func TestCheckout_CustomerAggregates(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)
	phone := "0712 345 678"
	ref := "THX81LQM2P"

	_, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 1)},
		PaymentMethod: model.PaymentCash,
		CustomerPhone: &phone,
	})
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:          []dto.CartLine{cartLine(cement, 1)},
		PaymentMethod:  model.PaymentMpesa,
		MpesaReference: &ref,
		CustomerPhone:  &phone,
	})
	require.NoError(t, err)

	customer, err := f.customers.FindByPhone(context.Background(), "254712345678")
	require.NoError(t, err)
	assert.Equal(t, 2, customer.TotalPurchasesCount)
	assert.Equal(t, 1, customer.MpesaPurchasesCount)
	assert.Equal(t, "1500", customer.TotalSpent.String())
	assert.Equal(t, "750", customer.TotalMpesaSpent.String())
	require.NotNil(t, customer.LastPurchaseAt)
	require.Len(t, f.customers.customers, 1)
}

func TestCheckout_LoyaltyDiscountApplied(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)
	phone := "254712345678"

	seeded := &model.Customer{PhoneNumber: phone, EligibleForDiscount: true, DiscountPercentage: decimal.NewFromInt(10)}
	require.NoError(t, f.customers.Create(context.Background(), seeded))

	resp, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 2)},
		PaymentMethod: model.PaymentCash,
		CustomerPhone: &phone,
	})
	require.NoError(t, err)

	// 10% of 1500 off the total, and off the profit.
	assert.Equal(t, "1500", resp.OriginalAmount.String())
	assert.Equal(t, "150", resp.DiscountAmount.String())
	assert.Equal(t, "10", resp.DiscountPercentage.String())
	assert.Equal(t, "1350", resp.TotalAmount.String())
	assert.Equal(t, "150", resp.TotalProfit.String())

	// The applied discount is recorded against this specific sale.
	require.Len(t, f.customers.discounts, 1)
	d := f.customers.discounts[0]
	assert.Equal(t, seeded.ID, d.CustomerID)
	assert.Equal(t, "150", d.Amount.String())
	assert.Equal(t, "10", d.Percentage.String())

	// Aggregates grow by the discounted amount actually paid.
	customer, _ := f.customers.FindByPhone(context.Background(), phone)
	assert.Equal(t, "1350", customer.TotalSpent.String())
}

func TestCheckout_ManualDiscountClamped(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)

	resp, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:          []dto.CartLine{cartLine(cement, 1)},
		PaymentMethod:  model.PaymentCash,
		ManualDiscount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "650", resp.TotalAmount.String())
	assert.Equal(t, "50", resp.TotalProfit.String())
	assert.Equal(t, "100", resp.ManualDiscount.String())

	// A manual discount larger than the subtotal is clamped, never negative.
	resp, err = f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:          []dto.CartLine{cartLine(cement, 1)},
		PaymentMethod:  model.PaymentCash,
		ManualDiscount: decimal.NewFromInt(10_000),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.IsZero())
	assert.Equal(t, "750", resp.ManualDiscount.String())

	resp, err = f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:          []dto.CartLine{cartLine(cement, 1)},
		PaymentMethod:  model.PaymentCash,
		ManualDiscount: decimal.NewFromInt(-50),
	})
	require.NoError(t, err)
	assert.Equal(t, "750", resp.TotalAmount.String())
	assert.True(t, resp.ManualDiscount.IsZero())
}

func TestSaleItems_Snapshot(t *testing.T) {
	f := newSaleFixture()
	cement := f.products.seed("CEM-001", "Cement 50kg", 20, 600, 750, 700, 7)

	resp, err := f.svc.Checkout(context.Background(), f.sellerID, "Jane", dto.CheckoutRequest{
		Items:         []dto.CartLine{cartLine(cement, 3)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// Editing the product later must not disturb the stored sale line.
	cement.Description = "Cement 50kg (rebranded)"
	cement.RegularPrice = decimal.NewFromInt(900)
	require.NoError(t, f.products.Update(context.Background(), cement))

	items, err := f.svc.Items(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cement 50kg", items[0].Description)
	assert.Equal(t, "750", items[0].UnitPrice.String())
	assert.Equal(t, "2250", items[0].TotalPrice.String())
	assert.Equal(t, "450", items[0].Profit.String())
}
