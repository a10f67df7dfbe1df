package booking

import (
	"context"
	"time"

	"glowbook/database"
	availabilityRepo "glowbook/database/repository/availability"
	bookingRepo "glowbook/database/repository/booking"
	serviceRepo "glowbook/database/repository/service"
	userRepo "glowbook/database/repository/user"
	"glowbook/models"
	"glowbook/services/events"
	"glowbook/services/payment"

	"go.uber.org/zap"
)

// BookingService owns the booking lifecycle: creation, payment confirmation,
// hold expiry, checkout and cancellation.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.CreateBookingResponse, error)
	ConfirmPayment(ctx context.Context, bookingID string) (*models.Booking, error)
	HandleWebhook(ctx context.Context, event *payment.WebhookEvent) error
	ExpireHold(ctx context.Context, bookingID string) error
	SweepExpiredHolds(ctx context.Context) (int, error)
	ReconcileInvoices(ctx context.Context) (int, error)

	Checkout(ctx context.Context, bookingID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string, req models.CancelBookingRequest) (*models.BookingCancellation, error)

	GetByID(ctx context.Context, bookingID string) (*models.BookingView, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.BookingView, error)
	Update(ctx context.Context, bookingID string, req models.BookingUpdateRequest) (*models.Booking, error)
	Delete(ctx context.Context, bookingID string) error
	ServiceAvailability(ctx context.Context, serviceID string) ([]models.AvailabilityBlock, error)
}

// InvoiceGenerator issues the invoice of a paid booking.
type InvoiceGenerator interface {
	GenerateForBooking(ctx context.Context, bookingID string) (*models.Invoice, error)
}

// HoldScheduler arranges for ExpireHold to run once a hold lapses.
type HoldScheduler interface {
	ScheduleHoldExpiry(ctx context.Context, bookingID string, at time.Time) error
}

// Settings holds the business rules applied to every booking.
type Settings struct {
	HoldTTL      time.Duration
	CheckInHour  int
	CheckOutHour int
	Location     *time.Location
}

// DefaultBookingService implements BookingService on top of the repositories.
type DefaultBookingService struct {
	Users        userRepo.UserRepository
	Services     serviceRepo.ServiceRepository
	Bookings     bookingRepo.BookingRepository
	Availability availabilityRepo.AvailabilityRepository
	Tx           database.TxRunner
	Payments     payment.Gateway
	Invoices     InvoiceGenerator
	Scheduler    HoldScheduler
	Events       events.Publisher
	Logger       *zap.Logger
	Settings     Settings
	Now          func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// holdTTL never undercuts the checkout session lifetime, so a session can
// not be paid after its hold was released.
func (s *DefaultBookingService) holdTTL() time.Duration {
	if s.Settings.HoldTTL < payment.MinSessionTTL {
		return payment.MinSessionTTL
	}
	return s.Settings.HoldTTL
}

func (s *DefaultBookingService) location() *time.Location {
	if s.Settings.Location == nil {
		return time.UTC
	}
	return s.Settings.Location
}

func (s *DefaultBookingService) publish(ctx context.Context, key string, b *models.Booking) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, key, models.NewBookingEvent(b, s.now())); err != nil {
		s.Logger.Warn("failed to publish booking event", zap.String("event", key), zap.Error(err))
	}
}
