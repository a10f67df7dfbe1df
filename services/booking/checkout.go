package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var checkoutFrom = models.CheckoutSources()

// Checkout closes a booking: the service ranges become free again and every
// service is flagged for cleaning. An unpaid hosted booking also loses its
// checkout session.
func (s *DefaultBookingService) Checkout(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, loadErr("Booking", err)
	}
	switch b.Status {
	case models.StatusCheckedOut:
		return nil, utils.Validation("Booking already checked out")
	case models.StatusCancelled:
		return nil, utils.Validation("Booking is cancelled")
	case models.StatusRefunded:
		return nil, utils.Validation("Booking is refunded")
	}

	now := s.now()
	var done *models.Booking
	err = s.Tx.WithTransaction(ctx, func(tx context.Context) error {
		var txErr error
		done, txErr = s.Bookings.TransitionStatus(tx, b.ID, checkoutFrom, models.StatusCheckedOut, nil)
		if txErr != nil {
			if errors.Is(txErr, repository.ErrNotFound) {
				return utils.Conflict("Booking changed while checking out, please retry", txErr)
			}
			return txErr
		}
		if err := s.release(tx, b.ID); err != nil {
			return err
		}
		return s.Services.MarkCheckedOut(tx, distinct(b.ServiceIDs()), now)
	})
	if err != nil {
		return nil, storeErr("failed to check out booking", err)
	}

	if b.Status == models.StatusPending {
		s.expireSession(ctx, b.StripeSessionID)
	}
	bookingTransitions.WithLabelValues(string(models.StatusCheckedOut)).Inc()
	s.Logger.Info("Booking checked out", zap.String("booking", done.ID), zap.String("order", done.OrderNumber))
	s.publish(ctx, models.EventBookingCheckout, done)
	return done, nil
}

// Cancel cancels a pending or paid booking, frees its ranges and records the
// refund owed. Paid bookings are refunded their total less the fee.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string, req models.CancelBookingRequest) (*models.BookingCancellation, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, utils.Validation("cancellation reason is required")
	}
	kind := req.CancellationType
	if kind == "" {
		kind = models.CancelUser
	}
	if !kind.Valid() {
		return nil, utils.Validation("unknown cancellation type " + string(kind))
	}

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, loadErr("Booking", err)
	}
	if b.Status != models.StatusPending && b.Status != models.StatusPaid {
		return nil, utils.Validation("Only pending or paid bookings can be cancelled")
	}
	if req.CancellationFee < 0 || req.CancellationFee > b.TotalPrice {
		return nil, utils.Validation("cancellation fee must be between 0 and the booking total")
	}

	services, err := s.Services.GetByIDs(ctx, distinct(b.ServiceIDs()))
	if err != nil {
		return nil, storeErr("failed to load services", err)
	}
	rec := cancellationRecord(b, services, kind, req, s.now())

	var cancelled *models.Booking
	err = s.Tx.WithTransaction(ctx, func(tx context.Context) error {
		var txErr error
		cancelled, txErr = s.Bookings.TransitionStatus(tx, b.ID,
			[]models.BookingStatus{models.StatusPending, models.StatusPaid}, models.StatusCancelled, nil)
		if txErr != nil {
			if errors.Is(txErr, repository.ErrNotFound) {
				return utils.Conflict("Booking changed while cancelling, please retry", txErr)
			}
			return txErr
		}
		if err := s.release(tx, b.ID); err != nil {
			return err
		}
		return s.Bookings.SaveCancellation(tx, rec)
	})
	if err != nil {
		return nil, storeErr("failed to cancel booking", err)
	}

	if b.Status == models.StatusPending {
		s.expireSession(ctx, b.StripeSessionID)
	}
	bookingTransitions.WithLabelValues(string(models.StatusCancelled)).Inc()
	s.Logger.Info("Booking cancelled",
		zap.String("booking", cancelled.ID),
		zap.String("type", string(kind)),
		zap.Float64("refund", rec.RefundAmount))
	s.publish(ctx, models.EventBookingCancelled, cancelled)
	return rec, nil
}

// release drops every block and hold owned by the booking.
func (s *DefaultBookingService) release(ctx context.Context, bookingID string) error {
	if err := s.Availability.DeleteBlocksByBooking(ctx, bookingID); err != nil {
		return err
	}
	return s.Availability.DeleteHoldsByBooking(ctx, bookingID)
}

func cancellationRecord(b *models.Booking, services []models.Service, kind models.CancellationType, req models.CancelBookingRequest, at time.Time) *models.BookingCancellation {
	titles := serviceTitles(services)

	paid := b.Status == models.StatusPaid
	refund := 0.0
	if paid {
		refund = utils.RoundMoney(b.TotalPrice - req.CancellationFee)
	}
	status := models.RefundNotApplicable
	if refund > 0 {
		status = models.RefundPending
	}

	lines := make([]models.CancelledService, 0, len(b.Services))
	for _, l := range b.Services {
		refundable := 0.0
		if b.TotalPrice > 0 {
			refundable = utils.RoundMoney(l.TPrice * refund / b.TotalPrice)
		}
		lines = append(lines, models.CancelledService{
			Title:            titles.of(l.ServiceID),
			Price:            l.TPrice,
			RefundableAmount: refundable,
		})
	}

	return &models.BookingCancellation{
		ID:               uuid.New().String(),
		Booking:          b.ID,
		Customer:         b.Customer,
		Reason:           strings.TrimSpace(req.Reason),
		CancellationType: kind,
		RefundStatus:     status,
		CancellationFee:  req.CancellationFee,
		RefundAmount:     refund,
		OriginalAmount:   b.TotalPrice,
		CancellationDate: at,
		Services:         lines,
		Notes:            req.Notes,
	}
}

type titleIndex map[string]string

func serviceTitles(services []models.Service) titleIndex {
	titles := make(titleIndex, len(services))
	for _, svc := range services {
		titles[svc.ID] = svc.Title
	}
	return titles
}

func (t titleIndex) of(serviceID string) string {
	if title := t[serviceID]; title != "" {
		return title
	}
	return "Service"
}
