package booking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glowbook_bookings_created_total",
		Help: "Bookings persisted, by payment mode.",
	}, []string{"payment_mode"})

	linesUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glowbook_booking_lines_unavailable_total",
		Help: "Requested service lines rejected because the range was taken.",
	})

	reservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glowbook_booking_write_conflicts_total",
		Help: "Booking transactions aborted by a concurrent reservation.",
	})

	bookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glowbook_booking_transitions_total",
		Help: "Booking status changes, by target status.",
	}, []string{"status"})
)
