package handlers

import (
	"net/http"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/inquiry"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

type InquiryHandler struct {
	Inquiries inquiry.InquiryService
}

func NewInquiryHandler(svc inquiry.InquiryService) *InquiryHandler {
	return &InquiryHandler{Inquiries: svc}
}

func senderRole(c *gin.Context) string {
	if middleware.IsAdmin(c) {
		return models.SenderAdmin
	}
	return models.SenderCustomer
}

func (h *InquiryHandler) CreateInquiryHandler(c *gin.Context) {
	var req models.InquiryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	inq, err := h.Inquiries.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inq)
}

// ListInquiriesHandler handles GET /api/inquiry. Admins see every inquiry,
// customers only their own.
func (h *InquiryHandler) ListInquiriesHandler(c *gin.Context) {
	filter := models.InquiryFilter{Status: c.Query("status")}
	if !middleware.IsAdmin(c) {
		filter.Customer = middleware.UserID(c)
	}
	list, err := h.Inquiries.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *InquiryHandler) ownedInquiry(c *gin.Context) (*models.Inquiry, bool) {
	inq, err := h.Inquiries.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	if !middleware.SelfOrAdmin(c, inq.Customer) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to access this inquiry")
		return nil, false
	}
	return inq, true
}

func (h *InquiryHandler) GetInquiryHandler(c *gin.Context) {
	inq, ok := h.ownedInquiry(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, inq)
}

func (h *InquiryHandler) AddMessageHandler(c *gin.Context) {
	var req models.InquiryMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	inq, ok := h.ownedInquiry(c)
	if !ok {
		return
	}
	updated, err := h.Inquiries.AddMessage(c.Request.Context(), inq.ID, senderRole(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *InquiryHandler) UpdateStatusHandler(c *gin.Context) {
	var req models.InquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	inq, ok := h.ownedInquiry(c)
	if !ok {
		return
	}
	updated, err := h.Inquiries.UpdateStatus(c.Request.Context(), inq.ID, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *InquiryHandler) AddCommunicationHandler(c *gin.Context) {
	var req models.CommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	updated, err := h.Inquiries.AddCommunication(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *InquiryHandler) DeleteInquiryHandler(c *gin.Context) {
	if err := h.Inquiries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Inquiry deleted"})
}
