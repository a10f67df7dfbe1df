package bookingRepo

import (
	"context"
	"time"

	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingRepository defines data access for bookings and the records they own.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	Update(ctx context.Context, id string, fields bson.M) (*models.Booking, error)
	// TransitionStatus moves the booking to `to` only if its current status is
	// one of from. It returns repository.ErrNotFound when nothing matched.
	TransitionStatus(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, fields bson.M) (*models.Booking, error)
	Delete(ctx context.Context, id string) error

	// ListExpiredHolds returns pending bookings whose hold expired at or before now.
	ListExpiredHolds(ctx context.Context, now time.Time) ([]models.Booking, error)
	// ListPaidWithoutInvoice returns paid bookings that never got an invoice.
	ListPaidWithoutInvoice(ctx context.Context, limit int64) ([]models.Booking, error)

	SaveAdditionalItems(ctx context.Context, items *models.AdditionalItems) error
	GetAdditionalItems(ctx context.Context, id string) (*models.AdditionalItems, error)
	ListAdditionalItems(ctx context.Context, ids []string) ([]models.AdditionalItems, error)
	DeleteAdditionalItemsByBooking(ctx context.Context, bookingID string) error

	SaveCancellation(ctx context.Context, c *models.BookingCancellation) error
}
