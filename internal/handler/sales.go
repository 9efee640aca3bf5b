package handler

import (
	"net/http"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/middleware"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Checkout godoc
// @Summary      Commit a sale
// @Description  Prices the cart server-side, verifies stock, applies loyalty and manual discounts, then commits atomically: guarded stock decrement, sale rows, customer aggregates. Receipt snapshot, audit rows, and spreadsheet sync follow the commit.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Cart contents"
// @Success      201  {object} dto.CheckoutResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sellerID, ok := authUserID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Checkout(c.Request.Context(), sellerID, middleware.GetClaims(c).FullName, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List sales
// @Description  Returns sale history filtered by date range, payment method, and receipt/phone search.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        start_date     query string false "YYYY-MM-DD"
// @Param        end_date       query string false "YYYY-MM-DD"
// @Param        payment_method query string false "cash | mpesa | all"
// @Param        search         query string false "receipt number or customer phone"
// @Success      200 {array} dto.SaleListItem
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Items godoc
// @Summary      Sale line items
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {array} dto.SaleItemResponse
// @Router       /v1/sales/{id}/items [get]
func (h *SalesHandler) Items(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Items(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
