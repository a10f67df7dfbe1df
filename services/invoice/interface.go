package invoice

import (
	"context"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	invoiceRepo "glowbook/database/repository/invoice"
	serviceRepo "glowbook/database/repository/service"
	userRepo "glowbook/database/repository/user"
	"glowbook/models"
	"glowbook/services/events"

	"go.uber.org/zap"
)

type InvoiceService interface {
	// GenerateForBooking builds, stores and links the invoice of a paid booking.
	// A booking that already has one gets it back unchanged.
	GenerateForBooking(ctx context.Context, bookingID string) (*models.Invoice, error)

	Create(ctx context.Context, req models.InvoiceCreateRequest) (*models.Invoice, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
	Update(ctx context.Context, id string, req models.InvoiceUpdateRequest) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// Settings carries the issuer block and payment terms.
type Settings struct {
	From    models.InvoiceParty
	DueDays int
}

// DefaultInvoiceService is the production implementation.
type DefaultInvoiceService struct {
	Repo     invoiceRepo.InvoiceRepository
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Services serviceRepo.ServiceRepository
	Events   events.Publisher
	Logger   *zap.Logger
	Settings Settings
	Now      func() time.Time
}

func (s *DefaultInvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
