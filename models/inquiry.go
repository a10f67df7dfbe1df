package models

import "time"

const (
	InquiryOpen     = "open"
	InquiryPending  = "pending"
	InquiryResolved = "resolved"
	InquiryClosed   = "closed"

	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

// ValidInquiryStatus reports whether s is a known inquiry status.
func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryOpen, InquiryPending, InquiryResolved, InquiryClosed:
		return true
	}
	return false
}

type InquiryMessage struct {
	Sender    string    `bson:"sender" json:"sender"` // customer or admin
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type ResponseTemplate struct {
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
}

type CommunicationEntry struct {
	Action    string    `bson:"action" json:"action"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Inquiry is a customer support thread.
type Inquiry struct {
	ID                   string               `bson:"id" json:"id"`
	Customer             string               `bson:"customer" json:"customer"`
	Subject              string               `bson:"subject" json:"subject"`
	InquiryStatus        string               `bson:"inquiryStatus" json:"inquiryStatus"`
	Messages             []InquiryMessage     `bson:"messages" json:"messages"`
	ResponseTemplates    []ResponseTemplate   `bson:"responseTemplates,omitempty" json:"responseTemplates,omitempty"`
	CommunicationHistory []CommunicationEntry `bson:"communicationHistory" json:"communicationHistory"`
	AssignedStaff        string               `bson:"assignedStaff,omitempty" json:"assignedStaff,omitempty"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type InquiryCreateRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type InquiryMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type InquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type CommunicationRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

type InquiryFilter struct {
	Customer string
	Status   string
}
