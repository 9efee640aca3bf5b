package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Checkout(ctx context.Context, sellerID uuid.UUID, sellerName string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListItem, error)
	Items(ctx context.Context, saleID uuid.UUID) ([]dto.SaleItemResponse, error)
}

type saleService struct {
	tx           TxManager
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	receiptRepo  repository.ReceiptRepository
	customers    CustomerService
	ledger       *Ledger
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	tx TxManager,
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	receiptRepo repository.ReceiptRepository,
	customers CustomerService,
	ledger *Ledger,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		tx:           tx,
		repo:         repo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		receiptRepo:  receiptRepo,
		customers:    customers,
		ledger:       ledger,
		dispatcher:   dispatcher,
	}
}

// pricedLine is one cart line after authoritative pricing and the pre-flight
// stock check.
type pricedLine struct {
	product *model.Product
	qty     int
	price   LinePrice
}

// auditedDecrement records the before/after quantities observed by the guarded
// decrement, for the post-commit ledger rows.
type auditedDecrement struct {
	product *model.Product
	qty     int
	before  int
	after   int
}

// ── Checkout ─────────────────────────────────────────────────────────────────
// The commit state machine: Priced → Verified → CustomerResolved → Committing
// → Committed | Aborted.
//
//  1. Read phase: every line is priced and stock-checked; any failure aborts
//     before a single write happens.
//  2. Customer resolution: phone normalized, customer found or created.
//  3. Committing: one transaction covering the per-line guarded stock
//     decrements, the sale header + items, the CustomerDiscount row, and the
//     customer aggregate update. The guarded decrement re-verifies stock at
//     write time; reporting no effect aborts the whole sale with
//     InsufficientStock even though the earlier read-check passed.
//  4. Committed: only now are the receipt snapshot, ledger rows, and the
//     spreadsheet sync job emitted — all best-effort, logged and swallowed.

func (s *saleService) Checkout(ctx context.Context, sellerID uuid.UUID, sellerName string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validation("sale must contain at least one item")
	}
	if req.PaymentMethod != model.PaymentCash && req.PaymentMethod != model.PaymentMpesa {
		return nil, apierror.Validation("invalid payment method %q", req.PaymentMethod)
	}
	if req.PaymentMethod == model.PaymentMpesa && (req.CustomerPhone == nil || *req.CustomerPhone == "") {
		return nil, apierror.Validation("phone number required for M-Pesa")
	}

	// 1. Price and verify every line (read phase, no writes).
	lines := make([]pricedLine, 0, len(req.Items))
	subtotal := decimal.Zero
	profitSum := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product_id %q", item.ProductID)
		}
		product, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound("product not found: %s", item.ProductID)
			}
			return nil, apierror.Persistence(err)
		}
		if product.Quantity < item.Quantity {
			return nil, apierror.InsufficientStock(
				"insufficient stock for %s: requested %d, available %d",
				product.Description, item.Quantity, product.Quantity)
		}
		price := PriceLine(product, item.Quantity)
		subtotal = subtotal.Add(price.Total)
		profitSum = profitSum.Add(price.Profit)
		lines = append(lines, pricedLine{product: product, qty: item.Quantity, price: price})
	}

	// 2. Resolve the loyalty customer (may create a row; no stock implications).
	customer, cleanPhone, err := s.customers.Resolve(ctx, req.CustomerPhone)
	if err != nil {
		return nil, err
	}

	// 3. Discount composition. Both discount types come out of markup, so they
	// reduce profit shilling-for-shilling.
	discountPct := decimal.Zero
	discountAmount := decimal.Zero
	if customer != nil && customer.EligibleForDiscount && customer.DiscountPercentage.IsPositive() {
		discountPct = customer.DiscountPercentage
		discountAmount = subtotal.Mul(discountPct).Div(decimal.NewFromInt(100))
	}
	manual := req.ManualDiscount
	if manual.IsNegative() {
		manual = decimal.Zero
	}
	if manual.GreaterThan(subtotal) {
		manual = subtotal
	}
	finalTotal := subtotal.Sub(discountAmount).Sub(manual)
	if finalTotal.IsNegative() {
		finalTotal = decimal.Zero
	}
	finalProfit := profitSum.Sub(discountAmount).Sub(manual)

	receiptNumber := fmt.Sprintf("RCP-%d", time.Now().UnixMilli())

	// 4. Committing: one atomic unit of work.
	sale := model.Sale{
		ReceiptNumber:  receiptNumber,
		SellerID:       sellerID,
		PaymentMethod:  req.PaymentMethod,
		MpesaReference: req.MpesaReference,
		TotalAmount:    finalTotal,
		TotalProfit:    finalProfit,
		ItemsCount:     len(req.Items),
		ManualDiscount: manual,
	}
	if customer != nil {
		cid := customer.ID
		sale.CustomerID = &cid
	}

	decrements := make([]auditedDecrement, 0, len(lines))
	txErr := s.tx.Run(ctx, func(tx *gorm.DB) error {
		// Guarded decrements first: the compare-and-decrement is the only
		// defense against two sellers racing on the same product row.
		for _, l := range lines {
			after, applied, err := s.productRepo.DecrementStockGuarded(tx, l.product.ID, l.qty)
			if err != nil {
				return err
			}
			if !applied {
				return apierror.InsufficientStock(
					"insufficient stock for %s: requested %d no longer available",
					l.product.Description, l.qty)
			}
			decrements = append(decrements, auditedDecrement{
				product: l.product, qty: l.qty, before: after + l.qty, after: after,
			})
		}

		for _, l := range lines {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:       l.product.ID,
				ItemCode:        l.product.ItemCode,
				Description:     l.product.Description,
				Quantity:        l.qty,
				UnitPrice:       l.price.UnitPrice,
				TotalPrice:      l.price.Total,
				Profit:          l.price.Profit,
				DiscountApplied: l.price.DiscountApplied,
			})
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		if customer != nil {
			if discountAmount.IsPositive() {
				if err := s.customerRepo.CreateDiscountTx(tx, &model.CustomerDiscount{
					CustomerID: customer.ID,
					SaleID:     sale.ID,
					Amount:     discountAmount,
					Percentage: discountPct,
				}); err != nil {
					return err
				}
			}
			mpesa := req.PaymentMethod == model.PaymentMpesa
			if err := s.customerRepo.ApplyPurchaseTx(tx, customer.ID, finalTotal, mpesa); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if apierror.KindOf(txErr) != apierror.KindPersistence {
			return nil, txErr
		}
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("receipt number %s already exists", receiptNumber)
		}
		return nil, apierror.Persistence(txErr)
	}

	// 5. Committed: everything below is fire-and-log.
	var phonePtr *string
	if cleanPhone != "" {
		phonePtr = &cleanPhone
	}
	receiptItems := make([]dto.ReceiptItem, len(sale.Items))
	for i, it := range sale.Items {
		receiptItems[i] = dto.ReceiptItem{
			ItemCode:        it.ItemCode,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TotalPrice:      it.TotalPrice,
			DiscountApplied: it.DiscountApplied,
		}
	}
	receipt := dto.ReceiptData{
		ReceiptNumber:      receiptNumber,
		SellerName:         sellerName,
		Items:              receiptItems,
		TotalAmount:        finalTotal,
		OriginalAmount:     subtotal,
		DiscountAmount:     discountAmount,
		DiscountPercentage: discountPct,
		ManualDiscount:     manual,
		PaymentMethod:      req.PaymentMethod,
		MpesaReference:     req.MpesaReference,
		CustomerPhone:      phonePtr,
		CreatedAt:          time.Now().UTC().Format(time.RFC3339),
	}

	for _, d := range decrements {
		pid := d.product.ID
		uid := sellerID
		s.ledger.Record(ctx, &model.InventoryAuditEntry{
			ProductID:       &pid,
			ItemCode:        d.product.ItemCode,
			Description:     d.product.Description,
			ChangeType:      model.AuditSale,
			QuantityChanged: -d.qty,
			BeforeQuantity:  d.before,
			AfterQuantity:   d.after,
			UserID:          &uid,
			Notes:           fmt.Sprintf("Sale %s", receiptNumber),
		})
	}

	s.storeReceipt(ctx, sale.ID, receipt)

	if s.dispatcher != nil {
		itemSummaries := make([]string, len(sale.Items))
		for i, it := range sale.Items {
			itemSummaries[i] = fmt.Sprintf("%s (x%d)", it.Description, it.Quantity)
		}
		if err := s.dispatcher.EnqueueSaleSync(ctx, worker.SaleSyncPayload{
			ReceiptNumber: receiptNumber,
			SellerName:    sellerName,
			Items:         itemSummaries,
			TotalAmount:   finalTotal.StringFixed(2),
		}); err != nil {
			log.Error().Err(err).Str("receipt", receiptNumber).Msg("sale: failed to enqueue spreadsheet sync")
		}
	}

	return &dto.CheckoutResponse{
		ID:                 sale.ID.String(),
		ReceiptNumber:      receiptNumber,
		TotalAmount:        finalTotal,
		TotalProfit:        finalProfit,
		OriginalAmount:     subtotal,
		DiscountAmount:     discountAmount,
		DiscountPercentage: discountPct,
		ManualDiscount:     manual,
		Receipt:            receipt,
	}, nil
}

// storeReceipt persists the immutable snapshot. The sale is already durably
// committed, so a failure here is logged and swallowed — never escalated.
func (s *saleService) storeReceipt(ctx context.Context, saleID uuid.UUID, data dto.ReceiptData) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("receipt", data.ReceiptNumber).Msg("sale: failed to marshal receipt snapshot")
		return
	}
	if err := s.receiptRepo.Create(ctx, &model.Receipt{
		ReceiptNumber: data.ReceiptNumber,
		SaleID:        saleID,
		Data:          raw,
	}); err != nil {
		log.Error().Err(err).Str("receipt", data.ReceiptNumber).Msg("sale: failed to store receipt snapshot")
	}
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListItem, error) {
	sales, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	items := make([]dto.SaleListItem, len(sales))
	for i := range sales {
		items[i] = saleToListItem(&sales[i])
	}
	return items, nil
}

func (s *saleService) Items(ctx context.Context, saleID uuid.UUID) ([]dto.SaleItemResponse, error) {
	items, err := s.repo.ListItems(ctx, saleID)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	resp := make([]dto.SaleItemResponse, len(items))
	for i, it := range items {
		resp[i] = dto.SaleItemResponse{
			ItemCode:        it.ItemCode,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TotalPrice:      it.TotalPrice,
			Profit:          it.Profit,
			DiscountApplied: it.DiscountApplied,
		}
	}
	return resp, nil
}

func saleToListItem(s *model.Sale) dto.SaleListItem {
	sellerName := ""
	if s.Seller != nil {
		sellerName = s.Seller.FullName
	}
	var phone *string
	if s.Customer != nil {
		p := s.Customer.PhoneNumber
		phone = &p
	}
	return dto.SaleListItem{
		ID:             s.ID.String(),
		ReceiptNumber:  s.ReceiptNumber,
		SellerName:     sellerName,
		CustomerPhone:  phone,
		PaymentMethod:  s.PaymentMethod,
		MpesaReference: s.MpesaReference,
		TotalAmount:    s.TotalAmount,
		TotalProfit:    s.TotalProfit,
		ItemsCount:     s.ItemsCount,
		ManualDiscount: s.ManualDiscount,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
