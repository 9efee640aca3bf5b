package handler

import (
	"net/http"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct{ ledger *service.Ledger }

func NewAuditHandler(ledger *service.Ledger) *AuditHandler { return &AuditHandler{ledger: ledger} }

// List godoc
// @Summary      Inventory audit trail
// @Description  Returns ledger entries newest first, filterable by product and change type.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  query string false "Product UUID"
// @Param        change_type query string false "SALE | RESTOCK | EDIT | EXCEL_SYNC | DELETE | NOTIFICATION"
// @Param        limit       query int    false "Max entries (default 200)"
// @Success      200 {array} dto.AuditEntryResponse
// @Router       /v1/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter dto.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid filter: "+err.Error()))
		return
	}
	resp, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
