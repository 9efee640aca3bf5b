package service

import (
	"context"
	"errors"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Search(ctx context.Context, query string) ([]dto.ProductResponse, error)
	AdjustStock(ctx context.Context, userID, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	saleRepo   repository.SaleRepository
	ledger     *Ledger
	dispatcher *worker.Dispatcher
}

func NewProductService(repo repository.ProductRepository, saleRepo repository.SaleRepository, ledger *Ledger, dispatcher *worker.Dispatcher) ProductService {
	return &productService{repo: repo, saleRepo: saleRepo, ledger: ledger, dispatcher: dispatcher}
}

func (s *productService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		ItemCode:          req.ItemCode,
		Description:       req.Description,
		Quantity:          req.Quantity,
		BuyingPrice:       req.BuyingPrice,
		RegularPrice:      req.RegularPrice,
		DiscountPrice:     req.DiscountPrice,
		DiscountThreshold: req.DiscountThreshold,
		LowStockThreshold: req.LowStockThreshold,
	}
	if p.DiscountThreshold == 0 {
		p.DiscountThreshold = 7
	}
	if p.LowStockThreshold == 0 {
		p.LowStockThreshold = 5
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("item code %s already exists", req.ItemCode)
		}
		return nil, apierror.Persistence(err)
	}

	pid := p.ID
	uid := userID
	s.ledger.Record(ctx, &model.InventoryAuditEntry{
		ProductID:       &pid,
		ItemCode:        p.ItemCode,
		Description:     p.Description,
		ChangeType:      model.AuditRestock,
		QuantityChanged: p.Quantity,
		BeforeQuantity:  0,
		AfterQuantity:   p.Quantity,
		UserID:          &uid,
		Notes:           "Initial stock",
	})
	s.enqueueInventorySync(ctx)

	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product not found")
		}
		return nil, apierror.Persistence(err)
	}

	oldQty := p.Quantity
	p.Description = req.Description
	p.Quantity = req.Quantity
	p.BuyingPrice = req.BuyingPrice
	p.RegularPrice = req.RegularPrice
	p.DiscountPrice = req.DiscountPrice
	if req.DiscountThreshold > 0 {
		p.DiscountThreshold = req.DiscountThreshold
	}
	if req.LowStockThreshold > 0 {
		p.LowStockThreshold = req.LowStockThreshold
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apierror.Persistence(err)
	}

	if oldQty != p.Quantity {
		pid := p.ID
		uid := userID
		s.ledger.Record(ctx, &model.InventoryAuditEntry{
			ProductID:       &pid,
			ItemCode:        p.ItemCode,
			Description:     p.Description,
			ChangeType:      model.AuditEdit,
			QuantityChanged: p.Quantity - oldQty,
			BeforeQuantity:  oldQty,
			AfterQuantity:   p.Quantity,
			UserID:          &uid,
			Notes:           "Manual edit",
		})
	}
	s.enqueueInventorySync(ctx)

	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("product not found")
		}
		return apierror.Persistence(err)
	}

	// A product referenced by a sale line is part of financial history and
	// can never be deleted.
	count, err := s.saleRepo.CountItemsByProduct(ctx, id)
	if err != nil {
		return apierror.Persistence(err)
	}
	if count > 0 {
		return apierror.Validation("cannot delete product with sales history (%d sale lines)", count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Persistence(err)
	}

	pid := p.ID
	uid := userID
	s.ledger.Record(ctx, &model.InventoryAuditEntry{
		ProductID:       &pid,
		ItemCode:        p.ItemCode,
		Description:     p.Description,
		ChangeType:      model.AuditDelete,
		QuantityChanged: -p.Quantity,
		BeforeQuantity:  p.Quantity,
		AfterQuantity:   0,
		UserID:          &uid,
		Notes:           "Product deleted",
	})
	s.enqueueInventorySync(ctx)
	return nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product not found")
		}
		return nil, apierror.Persistence(err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = productToResponse(&products[i])
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Search(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	products, err := s.repo.Search(ctx, query, 20)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = productToResponse(&products[i])
	}
	return data, nil
}

func (s *productService) AdjustStock(ctx context.Context, userID, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if req.Delta == 0 {
		return nil, apierror.Validation("delta must be non-zero")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product not found")
		}
		return nil, apierror.Persistence(err)
	}
	if req.Delta < 0 && p.Quantity+req.Delta < 0 {
		return nil, apierror.Validation("adjustment would drive stock below zero (current %d, delta %d)", p.Quantity, req.Delta)
	}

	newQty, err := s.repo.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		return nil, apierror.Persistence(err)
	}

	note := req.Note
	if note == "" {
		note = "Manual restock"
	}
	pid := p.ID
	uid := userID
	s.ledger.Record(ctx, &model.InventoryAuditEntry{
		ProductID:       &pid,
		ItemCode:        p.ItemCode,
		Description:     p.Description,
		ChangeType:      model.AuditRestock,
		QuantityChanged: req.Delta,
		BeforeQuantity:  newQty - req.Delta,
		AfterQuantity:   newQty,
		UserID:          &uid,
		Notes:           note,
	})
	s.enqueueInventorySync(ctx)

	p.Quantity = newQty
	resp := productToResponse(p)
	return &resp, nil
}

// enqueueInventorySync fires a best-effort spreadsheet sync job after any
// catalog mutation. Never fails the calling operation.
func (s *productService) enqueueInventorySync(ctx context.Context) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueInventorySync(ctx); err != nil {
		log.Error().Err(err).Msg("product: failed to enqueue inventory sync")
	}
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID.String(),
		ItemCode:          p.ItemCode,
		Description:       p.Description,
		Quantity:          p.Quantity,
		BuyingPrice:       p.BuyingPrice,
		RegularPrice:      p.RegularPrice,
		DiscountPrice:     p.DiscountPrice,
		DiscountThreshold: p.DiscountThreshold,
		LowStockThreshold: p.LowStockThreshold,
		ProfitPerItem:     p.RegularPrice.Sub(p.BuyingPrice),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}
