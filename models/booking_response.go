package models

// CustomerInput identifies the person placing a booking.
type CustomerInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

// ServiceRequest is one requested service line. Dates accept YYYY-MM-DD or RFC3339.
type ServiceRequest struct {
	ServiceID string `json:"serviceId" binding:"required"`
	CheckIn   string `json:"checkIn" binding:"required"`
	CheckOut  string `json:"checkOut" binding:"required"`
}

// CreateBookingRequest is the body of POST /api/booking.
type CreateBookingRequest struct {
	Customer        CustomerInput    `json:"customer" binding:"required"`
	Services        []ServiceRequest `json:"services" binding:"required,min=1,dive"`
	PaymentMode     string           `json:"paymentMode" binding:"required"`
	AdditionalItems []AdditionalItem `json:"additionalItems" binding:"omitempty,dive"`
	Reference       string           `json:"reference"`
}

// CreateBookingResponse is returned by POST /api/booking.
type CreateBookingResponse struct {
	Bookings            []BookingView `json:"bookings"`
	TotalPrice          float64       `json:"totalPrice"`
	UnavailableServices []string      `json:"unavailableServices"`
	StripeURL           string        `json:"stripeUrl,omitempty"`
	StripeSessionID     string        `json:"stripeSessionId,omitempty"`
}

// BookingView is a booking populated with its customer, services and add-ons.
type BookingView struct {
	Booking
	CustomerDetails        *UserSummary     `json:"customerDetails,omitempty"`
	ServiceDetails         []ServiceSummary `json:"serviceDetails,omitempty"`
	AdditionalItemsDetails *AdditionalItems `json:"additionalItemsDetails,omitempty"`
}

// BookingUpdateRequest lists the only booking fields an admin may change directly.
type BookingUpdateRequest struct {
	Reference *string        `json:"reference,omitempty"`
	Status    *BookingStatus `json:"status,omitempty"`
}

// CancelBookingRequest is the body of PUT /api/booking/cancelBooking/:bookingId.
type CancelBookingRequest struct {
	Reason           string           `json:"reason" binding:"required"`
	CancellationType CancellationType `json:"cancellationType"`
	CancellationFee  float64          `json:"cancellationFee" binding:"gte=0"`
	Notes            string           `json:"notes"`
}
