package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusPaid       BookingStatus = "paid"
	StatusCheckedIn  BookingStatus = "checkedIn"
	StatusCheckedOut BookingStatus = "checkedOut"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "noShow"
	StatusRefunded   BookingStatus = "refunded"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusPaid, StatusCheckedOut, StatusCancelled},
	StatusPaid:      {StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow, StatusRefunded},
	StatusCheckedIn: {StatusCheckedOut},
	StatusCancelled: {StatusRefunded},
	StatusNoShow:    {StatusCheckedOut, StatusRefunded},
}

// CheckoutSources lists the statuses a booking can be checked out from.
func CheckoutSources() []BookingStatus {
	var out []BookingStatus
	for from := range bookingTransitions {
		if from.CanTransitionTo(StatusCheckedOut) {
			out = append(out, from)
		}
	}
	return out
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow, StatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the booking lifecycle allows moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeHosted PaymentMode = "hosted"
)

// ParsePaymentMode accepts "cash", "hosted" and the legacy alias "stripe".
func ParsePaymentMode(raw string) (PaymentMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cash":
		return PaymentModeCash, true
	case "hosted", "stripe":
		return PaymentModeHosted, true
	}
	return "", false
}

// BookedService is one ordered service line of a booking.
type BookedService struct {
	ServiceID string    `bson:"serviceId" json:"serviceId"`
	CheckIn   time.Time `bson:"checkIn" json:"checkIn"`
	CheckOut  time.Time `bson:"checkOut" json:"checkOut"`
	Duration  int       `bson:"duration" json:"duration"` // days
	TPrice    float64   `bson:"tPrice" json:"tPrice"`
}

// Booking is a customer order covering one or more services.
type Booking struct {
	ID              string          `bson:"id" json:"id"`
	OrderNumber     string          `bson:"orderNumber" json:"orderNumber"`
	Customer        string          `bson:"customer" json:"customer"` // user id
	Services        []BookedService `bson:"services" json:"services"`
	TotalPrice      float64         `bson:"totalPrice" json:"totalPrice"`
	PaymentMode     PaymentMode     `bson:"paymentMode" json:"paymentMode"`
	Status          BookingStatus   `bson:"status" json:"status"`
	Reference       string          `bson:"reference,omitempty" json:"reference,omitempty"`
	AdditionalItems string          `bson:"additionalItems,omitempty" json:"additionalItems,omitempty"`
	StripeSessionID string          `bson:"stripeSessionId,omitempty" json:"stripeSessionId,omitempty"`
	HoldExpiresAt   *time.Time      `bson:"holdExpiresAt,omitempty" json:"holdExpiresAt,omitempty"`
	InvoiceID       string          `bson:"invoiceId,omitempty" json:"invoiceId,omitempty"`
	PaidAt          *time.Time      `bson:"paidAt,omitempty" json:"paidAt,omitempty"` // hosted payment confirmed
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// ServiceIDs returns the service ids of every line, in order.
func (b *Booking) ServiceIDs() []string {
	ids := make([]string, 0, len(b.Services))
	for _, s := range b.Services {
		ids = append(ids, s.ServiceID)
	}
	return ids
}

// AdditionalItem is a free-form add-on charged with a booking.
type AdditionalItem struct {
	Name     string  `bson:"name" json:"name" binding:"required"`
	Quantity int     `bson:"quantity" json:"quantity" binding:"gte=0"`
	Amount   float64 `bson:"amount" json:"amount" binding:"gte=0"`
}

// AdditionalItems is the add-on record owned by exactly one booking.
type AdditionalItems struct {
	ID          string           `bson:"id" json:"id"`
	Items       []AdditionalItem `bson:"items" json:"items"`
	TotalAmount float64          `bson:"totalAmount" json:"totalAmount"`
	Customer    string           `bson:"customer" json:"customer"`
	Booking     string           `bson:"booking" json:"booking"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
}

// AvailabilityBlock marks a service as reserved over [StartDate, EndDate].
type AvailabilityBlock struct {
	ID        string    `bson:"id" json:"id"`
	ServiceID string    `bson:"serviceId" json:"serviceId"`
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ReservationHold reserves a range for an unpaid hosted booking until ExpiresAt.
type ReservationHold struct {
	ID        string    `bson:"id" json:"id"`
	ServiceID string    `bson:"serviceId" json:"serviceId"`
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	Status   BookingStatus
	Customer string
}
