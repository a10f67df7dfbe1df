package memstore

import (
	"context"
	"sort"
	"time"

	"glowbook/models"
)

// AvailabilityRepo implements availabilityRepo.AvailabilityRepository.
type AvailabilityRepo struct{ s *Store }

func (s *Store) Availability() *AvailabilityRepo { return &AvailabilityRepo{s: s} }

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

func (r *AvailabilityRepo) HasConflict(_ context.Context, serviceID string, start, end, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.blocks {
		if b.ServiceID == serviceID && overlaps(b.StartDate, b.EndDate, start, end) {
			return true, nil
		}
	}
	for _, h := range r.s.holds {
		if h.ServiceID == serviceID && h.ExpiresAt.After(now) && overlaps(h.StartDate, h.EndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AvailabilityRepo) ListBlocks(_ context.Context, serviceID string, from time.Time) ([]models.AvailabilityBlock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.AvailabilityBlock{}
	for _, b := range r.s.blocks {
		if b.ServiceID == serviceID && !b.EndDate.Before(from) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *AvailabilityRepo) CreateBlocks(_ context.Context, blocks []models.AvailabilityBlock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.blocks = append(r.s.blocks, blocks...)
	return nil
}

func (r *AvailabilityRepo) DeleteBlocksByBooking(_ context.Context, bookingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.blocks[:0:0]
	for _, b := range r.s.blocks {
		if b.BookingID != bookingID {
			kept = append(kept, b)
		}
	}
	r.s.blocks = kept
	return nil
}

func (r *AvailabilityRepo) CreateHolds(_ context.Context, holds []models.ReservationHold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.holds = append(r.s.holds, holds...)
	return nil
}

func (r *AvailabilityRepo) DeleteHoldsByBooking(_ context.Context, bookingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.holds[:0:0]
	for _, h := range r.s.holds {
		if h.BookingID != bookingID {
			kept = append(kept, h)
		}
	}
	r.s.holds = kept
	return nil
}
