package invoice

import (
	"context"
	"time"

	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create stores a manually composed invoice. The total is the sum of line totals.
func (s *DefaultInvoiceService) Create(ctx context.Context, req models.InvoiceCreateRequest) (*models.Invoice, error) {
	status := req.Status
	if status == "" {
		status = models.InvoicePending
	}
	if !models.ValidInvoiceStatus(status) {
		return nil, utils.Validation("invalid invoice status")
	}
	if _, err := s.Users.GetByID(ctx, req.InvoiceTo); err != nil {
		return nil, utils.Validation("invoiceTo must reference an existing user")
	}

	now := s.now()
	due := now.AddDate(0, 0, s.Settings.DueDays)
	if req.DueDate != nil {
		due = *req.DueDate
	}

	var total float64
	for i := range req.Items {
		if req.Items[i].Quantity <= 0 {
			req.Items[i].Quantity = 1
		}
		if req.Items[i].Total == 0 {
			req.Items[i].Total = req.Items[i].Price * float64(req.Items[i].Quantity)
		}
		total += req.Items[i].Total
	}

	inv := &models.Invoice{
		ID:          uuid.New().String(),
		CreateDate:  now,
		DueDate:     due,
		InvoiceFrom: s.Settings.From,
		InvoiceTo:   req.InvoiceTo,
		BookingID:   req.BookingID,
		Items:       req.Items,
		Status:      status,
		TotalAmount: utils.RoundMoney(total),
	}
	if err := s.insertWithNumber(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *DefaultInvoiceService) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, invoiceNotFound(err)
	}
	return inv, nil
}

func (s *DefaultInvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	invoices, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, utils.Internal("failed to list invoices", err)
	}
	return invoices, nil
}

func (s *DefaultInvoiceService) Update(ctx context.Context, id string, req models.InvoiceUpdateRequest) (*models.Invoice, error) {
	fields := bson.M{}
	if req.Status != nil {
		if !models.ValidInvoiceStatus(*req.Status) {
			return nil, utils.Validation("invalid invoice status")
		}
		fields["status"] = *req.Status
	}
	if req.DueDate != nil {
		fields["dueDate"] = req.DueDate.In(time.UTC)
	}
	if len(fields) == 0 {
		return nil, utils.Validation("no updatable fields supplied")
	}

	inv, err := s.Repo.Update(ctx, id, fields)
	if err != nil {
		return nil, invoiceNotFound(err)
	}
	return inv, nil
}

func (s *DefaultInvoiceService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return invoiceNotFound(err)
	}
	return nil
}
