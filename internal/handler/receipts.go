package handler

import (
	"net/http"
	"strconv"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/service"

	"github.com/gin-gonic/gin"
)

type ReceiptsHandler struct{ svc service.ReceiptService }

func NewReceiptsHandler(svc service.ReceiptService) *ReceiptsHandler {
	return &ReceiptsHandler{svc: svc}
}

// List godoc
// @Summary List receipt snapshots, newest first
// @Tags receipts
// @Security BearerAuth
// @Param limit query int false "Max results (default 100)"
// @Success 200 {array} dto.ReceiptData
// @Router /v1/receipts [get]
func (h *ReceiptsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Fetch one receipt snapshot by number
// @Tags receipts
// @Security BearerAuth
// @Param number path string true "Receipt number"
// @Success 200 {object} dto.ReceiptData
// @Failure 404 {object} apierror.APIError
// @Router /v1/receipts/{number} [get]
func (h *ReceiptsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary Download a printable PDF of the receipt
// @Tags receipts
// @Security BearerAuth
// @Param number path string true "Receipt number"
// @Success 200 {file} binary
// @Router /v1/receipts/{number}/pdf [get]
func (h *ReceiptsHandler) PDF(c *gin.Context) {
	path, err := h.svc.GeneratePDF(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, c.Param("number")+".pdf")
}

type emailReceiptRequest struct {
	ToEmail string `json:"to_email" validate:"required,email"`
}

// Email godoc
// @Summary Email the receipt PDF to an address
// @Tags receipts
// @Security BearerAuth
// @Param number path string              true "Receipt number"
// @Param body   body emailReceiptRequest true "Destination address"
// @Success 202
// @Router /v1/receipts/{number}/email [post]
func (h *ReceiptsHandler) Email(c *gin.Context) {
	var req emailReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Email(c.Request.Context(), c.Param("number"), req.ToEmail); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"detail": "Receipt queued for delivery"})
}
