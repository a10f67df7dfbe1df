package invoice

import (
	"context"
	"errors"
	"time"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const maxNumberAttempts = 5

func (s *DefaultInvoiceService) GenerateForBooking(ctx context.Context, bookingID string) (*models.Invoice, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Booking not found")
		}
		return nil, utils.Internal("failed to load booking", err)
	}

	if existing, err := s.existingInvoice(ctx, booking); err != nil || existing != nil {
		return existing, err
	}

	customer, err := s.Users.GetByID(ctx, booking.Customer)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Customer not found")
		}
		return nil, utils.Internal("failed to load customer", err)
	}

	services, err := s.Services.GetByIDs(ctx, booking.ServiceIDs())
	if err != nil {
		return nil, utils.Internal("failed to load services", err)
	}

	var addOns *models.AdditionalItems
	if booking.AdditionalItems != "" {
		addOns, err = s.Bookings.GetAdditionalItems(ctx, booking.AdditionalItems)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Internal("failed to load additional items", err)
		}
	}

	now := s.now()
	inv := &models.Invoice{
		ID:          uuid.New().String(),
		CreateDate:  now,
		DueDate:     now.AddDate(0, 0, s.Settings.DueDays),
		InvoiceFrom: s.Settings.From,
		InvoiceTo:   customer.ID,
		BookingID:   booking.ID,
		Items:       BuildItems(booking, services, addOns),
		Status:      models.InvoicePaid,
		TotalAmount: booking.TotalPrice,
	}
	if err := s.insertWithNumber(ctx, inv); err != nil {
		return nil, err
	}

	if _, err := s.Bookings.Update(ctx, booking.ID, bson.M{"invoiceId": inv.ID}); err != nil {
		return nil, utils.Internal("invoice created but booking could not be linked", err)
	}

	s.Logger.Info("Invoice issued",
		zap.String("invoice", inv.InvoiceNumber),
		zap.String("booking", booking.ID),
		zap.Float64("total", inv.TotalAmount))
	if s.Events != nil {
		if err := s.Events.Publish(ctx, models.EventInvoiceIssued, inv); err != nil {
			s.Logger.Warn("failed to publish invoice event", zap.Error(err))
		}
	}
	return inv, nil
}

// existingInvoice returns the invoice already issued for booking, relinking it
// when a previous run stored the invoice but failed to stamp the booking.
func (s *DefaultInvoiceService) existingInvoice(ctx context.Context, booking *models.Booking) (*models.Invoice, error) {
	if booking.InvoiceID != "" {
		inv, err := s.Repo.GetByID(ctx, booking.InvoiceID)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Internal("failed to load invoice", err)
		}
	}

	inv, err := s.Repo.GetByBooking(ctx, booking.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.Internal("failed to load invoice", err)
	}
	if booking.InvoiceID != inv.ID {
		if _, err := s.Bookings.Update(ctx, booking.ID, bson.M{"invoiceId": inv.ID}); err != nil {
			return nil, utils.Internal("failed to link invoice", err)
		}
	}
	return inv, nil
}

// insertWithNumber assigns a fresh INV- number and retries when the unique
// index reports a collision.
func (s *DefaultInvoiceService) insertWithNumber(ctx context.Context, inv *models.Invoice) error {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		inv.InvoiceNumber = utils.NewInvoiceNumber()
		err := s.Repo.Create(ctx, inv)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return utils.Internal("failed to store invoice", err)
		}
	}
	return utils.Conflict("could not allocate a unique invoice number", nil)
}

// BuildItems copies one line per booked service and one per add-on.
func BuildItems(booking *models.Booking, services []models.Service, addOns *models.AdditionalItems) []models.InvoiceItem {
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	items := make([]models.InvoiceItem, 0, len(booking.Services))
	for _, line := range booking.Services {
		item := models.InvoiceItem{
			Title:    "Service",
			Quantity: 1,
			Price:    line.TPrice,
			Total:    line.TPrice,
			CheckIn:  timePtr(line.CheckIn),
			CheckOut: timePtr(line.CheckOut),
		}
		if svc, ok := byID[line.ServiceID]; ok {
			item.Title = svc.Title
			item.Description = svc.Description
			item.Images = svc.Images
			item.Category = svc.Category
		}
		items = append(items, item)
	}

	if addOns != nil {
		for _, add := range addOns.Items {
			items = append(items, models.InvoiceItem{
				Title:    add.Name,
				Quantity: add.Quantity,
				Price:    add.Amount,
				Total:    add.Amount,
			})
		}
	}
	return items
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func invoiceNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("Invoice not found")
	}
	return utils.Internal("invoice store failure", err)
}
