package memstore

import (
	"context"
	"sort"
	"time"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingRepo implements bookingRepo.BookingRepository.
type BookingRepo struct{ s *Store }

func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s: s} }

func (r *BookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.ID == booking.ID || b.OrderNumber == booking.OrderNumber {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BookingRepo) OrderNumberExists(_ context.Context, orderNumber string) (bool, error) {
	return len(r.find(func(b models.Booking) bool { return b.OrderNumber == orderNumber })) > 0, nil
}

func (r *BookingRepo) List(_ context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return r.find(func(b models.Booking) bool {
		return (filter.Status == "" || b.Status == filter.Status) &&
			(filter.Customer == "" || b.Customer == filter.Customer)
	}), nil
}

func (r *BookingRepo) ListExpiredHolds(_ context.Context, now time.Time) ([]models.Booking, error) {
	return r.find(func(b models.Booking) bool {
		return b.Status == models.StatusPending && b.HoldExpiresAt != nil && !b.HoldExpiresAt.After(now)
	}), nil
}

func (r *BookingRepo) ListPaidWithoutInvoice(_ context.Context, limit int64) ([]models.Booking, error) {
	out := r.find(func(b models.Booking) bool {
		return b.Status == models.StatusPaid && b.InvoiceID == ""
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *BookingRepo) find(match func(models.Booking) bool) []models.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Booking{}
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *BookingRepo) Update(_ context.Context, id string, fields bson.M) (*models.Booking, error) {
	return r.set(id, nil, fields)
}

func (r *BookingRepo) TransitionStatus(_ context.Context, id string, from []models.BookingStatus, to models.BookingStatus, fields bson.M) (*models.Booking, error) {
	if fields == nil {
		fields = bson.M{}
	}
	fields["status"] = to
	return r.set(id, from, fields)
}

func (r *BookingRepo) set(id string, from []models.BookingStatus, fields bson.M) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if from != nil {
		matched := false
		for _, st := range from {
			if b.Status == st {
				matched = true
				break
			}
		}
		if !matched {
			return nil, repository.ErrNotFound
		}
	}
	fields["updatedAt"] = time.Now()
	updated, err := apply(b, fields)
	if err != nil {
		return nil, err
	}
	r.s.bookings[id] = updated
	return &updated, nil
}

func (r *BookingRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *BookingRepo) SaveAdditionalItems(_ context.Context, items *models.AdditionalItems) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.additional[items.ID]; ok {
		return repository.ErrDuplicate
	}
	if items.CreatedAt.IsZero() {
		items.CreatedAt = time.Now()
	}
	r.s.additional[items.ID] = *items
	return nil
}

func (r *BookingRepo) GetAdditionalItems(_ context.Context, id string) (*models.AdditionalItems, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items, ok := r.s.additional[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &items, nil
}

func (r *BookingRepo) ListAdditionalItems(_ context.Context, ids []string) ([]models.AdditionalItems, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.AdditionalItems{}
	for _, id := range ids {
		if items, ok := r.s.additional[id]; ok {
			out = append(out, items)
		}
	}
	return out, nil
}

func (r *BookingRepo) DeleteAdditionalItemsByBooking(_ context.Context, bookingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, items := range r.s.additional {
		if items.Booking == bookingID {
			delete(r.s.additional, id)
		}
	}
	return nil
}

func (r *BookingRepo) SaveCancellation(_ context.Context, c *models.BookingCancellation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.cancellations {
		if existing.ID == c.ID {
			return repository.ErrDuplicate
		}
	}
	r.s.cancellations = append(r.s.cancellations, *c)
	return nil
}
