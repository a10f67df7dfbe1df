package availabilityRepo

import (
	"context"
	"time"

	"glowbook/models"
)

// AvailabilityRepository stores confirmed blocks and temporary holds.
type AvailabilityRepository interface {
	// HasConflict reports whether any block, or any hold still alive at now,
	// on serviceID overlaps the closed range [start, end].
	HasConflict(ctx context.Context, serviceID string, start, end, now time.Time) (bool, error)
	ListBlocks(ctx context.Context, serviceID string, from time.Time) ([]models.AvailabilityBlock, error)

	CreateBlocks(ctx context.Context, blocks []models.AvailabilityBlock) error
	DeleteBlocksByBooking(ctx context.Context, bookingID string) error

	CreateHolds(ctx context.Context, holds []models.ReservationHold) error
	DeleteHoldsByBooking(ctx context.Context, bookingID string) error
}
