// Package memstore keeps every repository in process memory. It backs the
// service and handler tests and mirrors the Mongo repositories' filters, so a
// behaviour that holds here holds against the database.
package memstore

import (
	"context"
	"sync"

	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Store owns the collections. Transactions run one at a time and roll back
// every collection when fn fails.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users         map[string]models.User
	services      map[string]models.Service
	bookings      map[string]models.Booking
	additional    map[string]models.AdditionalItems
	cancellations []models.BookingCancellation
	blocks        []models.AvailabilityBlock
	holds         []models.ReservationHold
	invoices      map[string]models.Invoice
	inquiries     map[string]models.Inquiry
	carousels     map[string]models.Carousel
	preps         map[string]models.Prep
}

func New() *Store {
	return &Store{
		users:      map[string]models.User{},
		services:   map[string]models.Service{},
		bookings:   map[string]models.Booking{},
		additional: map[string]models.AdditionalItems{},
		invoices:   map[string]models.Invoice{},
		inquiries:  map[string]models.Inquiry{},
		carousels:  map[string]models.Carousel{},
		preps:      map[string]models.Prep{},
	}
}

type snapshot struct {
	users         map[string]models.User
	services      map[string]models.Service
	bookings      map[string]models.Booking
	additional    map[string]models.AdditionalItems
	cancellations []models.BookingCancellation
	blocks        []models.AvailabilityBlock
	holds         []models.ReservationHold
	invoices      map[string]models.Invoice
	inquiries     map[string]models.Inquiry
	carousels     map[string]models.Carousel
	preps         map[string]models.Prep
}

func copyMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:         copyMap(s.users),
		services:      copyMap(s.services),
		bookings:      copyMap(s.bookings),
		additional:    copyMap(s.additional),
		cancellations: append([]models.BookingCancellation(nil), s.cancellations...),
		blocks:        append([]models.AvailabilityBlock(nil), s.blocks...),
		holds:         append([]models.ReservationHold(nil), s.holds...),
		invoices:      copyMap(s.invoices),
		inquiries:     copyMap(s.inquiries),
		carousels:     copyMap(s.carousels),
		preps:         copyMap(s.preps),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.services = snap.services
	s.bookings = snap.bookings
	s.additional = snap.additional
	s.cancellations = snap.cancellations
	s.blocks = snap.blocks
	s.holds = snap.holds
	s.invoices = snap.invoices
	s.inquiries = snap.inquiries
	s.carousels = snap.carousels
	s.preps = snap.preps
}

// WithTransaction implements database.TxRunner. Transactions are serialized,
// which is stricter than Mongo snapshot isolation but yields the same
// outcome for the conflicting writers the services guard against.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Cancellations returns every cancellation record written so far.
func (s *Store) Cancellations() []models.BookingCancellation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BookingCancellation(nil), s.cancellations...)
}

// Blocks returns the availability blocks of a booking.
func (s *Store) Blocks(bookingID string) []models.AvailabilityBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AvailabilityBlock
	for _, b := range s.blocks {
		if b.BookingID == bookingID {
			out = append(out, b)
		}
	}
	return out
}

// Holds returns the reservation holds of a booking.
func (s *Store) Holds(bookingID string) []models.ReservationHold {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ReservationHold
	for _, h := range s.holds {
		if h.BookingID == bookingID {
			out = append(out, h)
		}
	}
	return out
}

// apply emulates a top-level $set by round-tripping doc through BSON.
func apply[T any](doc T, fields bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return out, err
	}
	for k, v := range fields {
		m[k] = v
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
