package models

import "time"

type CancellationType string

const (
	CancelUser      CancellationType = "userCancelled"
	CancelMakeup    CancellationType = "makeupCancelled"
	CancelNoShow    CancellationType = "noShow"
	CancelDouble    CancellationType = "doubleBooking"
	CancelEmergency CancellationType = "emergency"
	CancelOther     CancellationType = "other"
)

// Valid reports whether t is a known cancellation type.
func (t CancellationType) Valid() bool {
	switch t {
	case CancelUser, CancelMakeup, CancelNoShow, CancelDouble, CancelEmergency, CancelOther:
		return true
	}
	return false
}

type RefundStatus string

const (
	RefundPending       RefundStatus = "pending"
	RefundProcessing    RefundStatus = "processing"
	RefundCompleted     RefundStatus = "completed"
	RefundFailed        RefundStatus = "failed"
	RefundNotApplicable RefundStatus = "notApplicable"
)

// CancelledService records how much of one service line is refundable.
type CancelledService struct {
	Title            string  `bson:"title" json:"title"`
	Price            float64 `bson:"price" json:"price"`
	RefundableAmount float64 `bson:"refundableAmount" json:"refundableAmount"`
}

// BookingCancellation is the audit record written when a booking is cancelled.
type BookingCancellation struct {
	ID               string             `bson:"id" json:"id"`
	Booking          string             `bson:"booking" json:"booking"`
	Customer         string             `bson:"customer" json:"customer"`
	Reason           string             `bson:"reason" json:"reason"`
	CancellationType CancellationType   `bson:"cancellationType" json:"cancellationType"`
	RefundStatus     RefundStatus       `bson:"refundStatus" json:"refundStatus"`
	CancellationFee  float64            `bson:"cancellationFee" json:"cancellationFee"`
	RefundAmount     float64            `bson:"refundAmount" json:"refundAmount"`
	OriginalAmount   float64            `bson:"originalAmount" json:"originalAmount"`
	CancellationDate time.Time          `bson:"cancellationDate" json:"cancellationDate"`
	Services         []CancelledService `bson:"services" json:"services"`
	RefundReference  string             `bson:"refundReference,omitempty" json:"refundReference,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
