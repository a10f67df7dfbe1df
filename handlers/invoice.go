package handlers

import (
	"net/http"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/invoice"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	Invoices invoice.InvoiceService
}

func NewInvoiceHandler(svc invoice.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Invoices: svc}
}

// CreateInvoiceHandler handles POST /api/invoice. Non-admins may only bill
// themselves.
func (h *InvoiceHandler) CreateInvoiceHandler(c *gin.Context) {
	var req models.InvoiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if !middleware.SelfOrAdmin(c, req.InvoiceTo) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to invoice another user")
		return
	}
	inv, err := h.Invoices.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) ListInvoicesHandler(c *gin.Context) {
	invoices, err := h.Invoices.List(c.Request.Context(), models.InvoiceFilter{
		Status:    c.Query("status"),
		InvoiceTo: c.Query("invoiceTo"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoiceHandler(c *gin.Context) {
	inv, err := h.Invoices.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !middleware.SelfOrAdmin(c, inv.InvoiceTo) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to view this invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) UpdateInvoiceHandler(c *gin.Context) {
	var req models.InvoiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	inv, err := h.Invoices.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) DeleteInvoiceHandler(c *gin.Context) {
	if err := h.Invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice deleted"})
}
