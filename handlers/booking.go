package handlers

import (
	"io"
	"net/http"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/services/payment"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBytes bounds the Stripe payload read into memory.
const maxWebhookBytes = 65536

type BookingHandler struct {
	BookingSvc    booking.BookingService
	WebhookSecret string
}

func NewBookingHandler(svc booking.BookingService, webhookSecret string) *BookingHandler {
	return &BookingHandler{BookingSvc: svc, WebhookSecret: webhookSecret}
}

// CreateBookingHandler handles POST /api/booking. Guests may book without an
// account.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	resp, err := h.BookingSvc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckoutHandler handles PUT /api/booking/checkout/:id (admin).
func (h *BookingHandler) CheckoutHandler(c *gin.Context) {
	b, err := h.BookingSvc.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Checkout successful", "booking": b})
}

// CancelBookingHandler handles PUT /api/booking/cancelBooking/:bookingId.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	id := c.Param("bookingId")
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	view, err := h.BookingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !middleware.SelfOrAdmin(c, view.Customer) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to cancel this booking")
		return
	}
	record, err := h.BookingSvc.Cancel(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking cancelled", "cancellation": record})
}

// ListBookingsHandler handles GET /api/booking and GET /api/booking/getByStatus (admin).
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	filter := models.BookingFilter{Status: models.BookingStatus(c.Query("status"))}
	views, err := h.BookingSvc.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetBookingHandler handles GET /api/booking/:id (owner or admin).
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	view, err := h.BookingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !middleware.SelfOrAdmin(c, view.Customer) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to view this booking")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UserBookingsHandler handles GET /api/booking/user/:userId (owner or admin).
func (h *BookingHandler) UserBookingsHandler(c *gin.Context) {
	userID := c.Param("userId")
	if !middleware.SelfOrAdmin(c, userID) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to view these bookings")
		return
	}
	views, err := h.BookingSvc.List(c.Request.Context(), models.BookingFilter{
		Customer: userID,
		Status:   models.BookingStatus(c.Query("status")),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// UpdateBookingHandler handles PUT /api/booking/:id (admin).
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	var req models.BookingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	b, err := h.BookingSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBookingHandler handles DELETE /api/booking/:id (admin).
func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	if err := h.BookingSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking deleted"})
}

// ServiceAvailabilityHandler handles GET /api/booking/availability/:serviceId.
func (h *BookingHandler) ServiceAvailabilityHandler(c *gin.Context) {
	blocks, err := h.BookingSvc.ServiceAvailability(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"serviceId": c.Param("serviceId"), "blocked": blocks})
}

// StripeWebhookHandler handles POST /api/booking/webhook/stripe. A non-2xx
// reply makes Stripe redeliver, so only processing failures return 500.
func (h *BookingHandler) StripeWebhookHandler(c *gin.Context) {
	logger := getLogger(c)
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable webhook body")
		return
	}
	event, err := payment.ParseWebhook(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		logger.Warn("Rejected Stripe webhook", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook signature")
		return
	}
	if err := h.BookingSvc.HandleWebhook(c.Request.Context(), event); err != nil {
		logger.Error("Stripe webhook processing failed",
			zap.String("type", event.Type),
			zap.String("booking", event.BookingID),
			zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
