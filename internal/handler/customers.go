package handler

import (
	"net/http"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Lookup godoc
// @Summary      Look up a customer by phone
// @Description  Accepts any spacing or leading-zero format; the phone is normalized before lookup.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        phone query string true "Phone number"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/customers/lookup [get]
func (h *CustomersHandler) Lookup(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Missing phone"))
		return
	}
	resp, err := h.svc.Lookup(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) List(c *gin.Context) {
	var filter dto.CustomerFilter
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

// UpdateDiscount godoc
// @Summary Grant or revoke a customer's loyalty discount
// @Tags customers
// @Security BearerAuth
// @Param id   path string                    true "Customer UUID"
// @Param body body dto.UpdateDiscountRequest true "Eligibility and percentage"
// @Success 204
// @Router /v1/customers/{id}/discount [put]
func (h *CustomersHandler) UpdateDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateDiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateDiscount(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CustomersHandler) Purchases(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Purchases(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
