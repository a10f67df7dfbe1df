package models

import "time"

// Routing keys published on the events exchange.
const (
	EventBookingCreated   = "booking.created"
	EventBookingPaid      = "booking.paid"
	EventBookingExpired   = "booking.expired"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCheckout  = "booking.checkedOut"
	EventInvoiceIssued    = "invoice.issued"
	EventInquiryCreated   = "inquiry.created"
)

// BookingEvent is the JSON body of every booking.* message.
type BookingEvent struct {
	BookingID   string        `json:"bookingId"`
	OrderNumber string        `json:"orderNumber"`
	Customer    string        `json:"customer"`
	Status      BookingStatus `json:"status"`
	TotalPrice  float64       `json:"totalPrice"`
	OccurredAt  time.Time     `json:"occurredAt"`
}

// NewBookingEvent snapshots b for publishing.
func NewBookingEvent(b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID:   b.ID,
		OrderNumber: b.OrderNumber,
		Customer:    b.Customer,
		Status:      b.Status,
		TotalPrice:  b.TotalPrice,
		OccurredAt:  at,
	}
}

// HoldExpiryPayload is the asynq payload of a scheduled hold release.
type HoldExpiryPayload struct {
	BookingID string `json:"bookingId"`
}
