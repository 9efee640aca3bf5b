package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/handler"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/middleware"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSaleService struct {
	calls    int
	sellerID uuid.UUID
}

func (s *stubSaleService) Checkout(_ context.Context, sellerID uuid.UUID, _ string, _ dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	s.calls++
	s.sellerID = sellerID
	return &dto.CheckoutResponse{ID: uuid.NewString(), ReceiptNumber: "RCP-1756461300000"}, nil
}

func (s *stubSaleService) List(_ context.Context, _ dto.SaleFilter) ([]dto.SaleListItem, error) {
	return nil, nil
}

func (s *stubSaleService) Items(_ context.Context, _ uuid.UUID) ([]dto.SaleItemResponse, error) {
	return nil, nil
}

var _ service.SaleService = (*stubSaleService)(nil)

func postCheckout(svc service.SaleService, claims *middleware.JWTClaims) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}],"payment_method":"cash"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ClaimsKey, claims)
	handler.NewSalesHandler(svc).Checkout(c)
	return w
}

func TestCheckout_RejectsUnparsableTokenSubject(t *testing.T) {
	svc := &stubSaleService{}

	w := postCheckout(svc, &middleware.JWTClaims{UserID: "not-a-uuid", FullName: "Jane Wanjiru"})

	// A malformed user_id claim must never reach the sale engine as a zero
	// seller UUID.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, svc.calls)
}

func TestCheckout_PassesParsedSellerID(t *testing.T) {
	svc := &stubSaleService{}
	sellerID := uuid.New()

	w := postCheckout(svc, &middleware.JWTClaims{UserID: sellerID.String(), FullName: "Jane Wanjiru"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, sellerID, svc.sellerID)
}
