package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NormalizePhone strips all whitespace from a phone string and replaces a
// leading "0" with the country code "254". Pure and idempotent: "0712 345 678"
// and "254712345678" normalize to the same key and therefore resolve to the
// same customer row.
func NormalizePhone(phone string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
	if strings.HasPrefix(clean, "0") {
		clean = "254" + clean[1:]
	}
	return clean
}

type CustomerService interface {
	// Resolve finds or lazily creates the customer behind a raw phone string.
	// Returns (nil, "", nil) when no phone was supplied — phone is optional
	// for cash sales; the mpesa requirement is enforced by the caller.
	Resolve(ctx context.Context, phone *string) (*model.Customer, string, error)
	Lookup(ctx context.Context, phone string) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error)
	UpdateDiscount(ctx context.Context, id uuid.UUID, req dto.UpdateDiscountRequest) error
	Purchases(ctx context.Context, id uuid.UUID) ([]dto.SaleListItem, error)
}

type customerService struct {
	repo     repository.CustomerRepository
	saleRepo repository.SaleRepository
}

func NewCustomerService(repo repository.CustomerRepository, saleRepo repository.SaleRepository) CustomerService {
	return &customerService{repo: repo, saleRepo: saleRepo}
}

func (s *customerService) Resolve(ctx context.Context, phone *string) (*model.Customer, string, error) {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil, "", nil
	}
	clean := NormalizePhone(*phone)

	customer, err := s.repo.FindByPhone(ctx, clean)
	if err == nil {
		return customer, clean, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apierror.Persistence(err)
	}

	// Unseen phone: create a fresh record with zeroed counters and no
	// discount. Safe to commit independently of the sale — it carries no
	// stock implications.
	customer = &model.Customer{PhoneNumber: clean}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, "", apierror.Persistence(err)
	}
	return customer, clean, nil
}

func (s *customerService) Lookup(ctx context.Context, phone string) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByPhone(ctx, NormalizePhone(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("customer not found")
		}
		return nil, apierror.Persistence(err)
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, filter.MinPurchases)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = customerToResponse(&customers[i])
	}
	return resp, nil
}

func (s *customerService) UpdateDiscount(ctx context.Context, id uuid.UUID, req dto.UpdateDiscountRequest) error {
	err := s.repo.UpdateDiscount(ctx, id, req.Eligible, req.DiscountPercentage)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound("customer not found")
	}
	if err != nil {
		return apierror.Persistence(err)
	}
	return nil
}

func (s *customerService) Purchases(ctx context.Context, id uuid.UUID) ([]dto.SaleListItem, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("customer not found")
		}
		return nil, apierror.Persistence(err)
	}
	sales, err := s.saleRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	items := make([]dto.SaleListItem, len(sales))
	for i := range sales {
		items[i] = saleToListItem(&sales[i])
	}
	return items, nil
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	var last *string
	if c.LastPurchaseAt != nil {
		s := c.LastPurchaseAt.Format(time.RFC3339)
		last = &s
	}
	return dto.CustomerResponse{
		ID:                  c.ID.String(),
		PhoneNumber:         c.PhoneNumber,
		TotalPurchasesCount: c.TotalPurchasesCount,
		MpesaPurchasesCount: c.MpesaPurchasesCount,
		TotalSpent:          c.TotalSpent,
		TotalMpesaSpent:     c.TotalMpesaSpent,
		EligibleForDiscount: c.EligibleForDiscount,
		DiscountPercentage:  c.DiscountPercentage,
		LastPurchaseAt:      last,
	}
}
