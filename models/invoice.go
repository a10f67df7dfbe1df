package models

import "time"

const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
	InvoiceDraft   = "draft"
)

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceDraft:
		return true
	}
	return false
}

// InvoiceParty is the business issuing the invoice.
type InvoiceParty struct {
	Name        string `bson:"name" json:"name"`
	FullAddress string `bson:"fullAddress" json:"fullAddress"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
}

// InvoiceItem is one denormalized line copied from a service or add-on.
type InvoiceItem struct {
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Quantity    int        `bson:"quantity" json:"quantity"`
	Price       float64    `bson:"price" json:"price"`
	Total       float64    `bson:"total" json:"total"`
	Images      []string   `bson:"images,omitempty" json:"images,omitempty"`
	Category    string     `bson:"category,omitempty" json:"category,omitempty"`
	CheckIn     *time.Time `bson:"checkIn,omitempty" json:"checkIn,omitempty"`
	CheckOut    *time.Time `bson:"checkOut,omitempty" json:"checkOut,omitempty"`
}

// Invoice is a snapshot of a booking at generation time. It is not regenerated
// when the booking changes afterwards.
type Invoice struct {
	ID            string        `bson:"id" json:"id"`
	InvoiceNumber string        `bson:"invoiceNumber" json:"invoiceNumber"`
	CreateDate    time.Time     `bson:"createDate" json:"createDate"`
	DueDate       time.Time     `bson:"dueDate" json:"dueDate"`
	InvoiceFrom   InvoiceParty  `bson:"invoiceFrom" json:"invoiceFrom"`
	InvoiceTo     string        `bson:"invoiceTo" json:"invoiceTo"` // user id
	BookingID     string        `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Items         []InvoiceItem `bson:"items" json:"items"`
	Status        string        `bson:"status" json:"status"`
	TotalAmount   float64       `bson:"totalAmount" json:"totalAmount"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// InvoiceCreateRequest is the body of a manual POST /api/invoice.
type InvoiceCreateRequest struct {
	InvoiceTo string        `json:"invoiceTo" binding:"required"`
	BookingID string        `json:"bookingId"`
	DueDate   *time.Time    `json:"dueDate"`
	Items     []InvoiceItem `json:"items" binding:"required,min=1"`
	Status    string        `json:"status"`
}

// InvoiceUpdateRequest lists the only invoice fields an admin may change.
type InvoiceUpdateRequest struct {
	Status  *string    `json:"status,omitempty"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status    string
	InvoiceTo string
}
