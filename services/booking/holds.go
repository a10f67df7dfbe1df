package booking

import (
	"context"
	"errors"

	"glowbook/database/repository"
	"glowbook/models"

	"go.uber.org/zap"
)

const reconcileBatch = 50

// ExpireHold cancels a pending hosted booking whose hold lapsed and releases
// the hold. Bookings that were paid or whose hold is still live are left alone.
func (s *DefaultBookingService) ExpireHold(ctx context.Context, bookingID string) error {
	return s.releaseHold(ctx, bookingID, false, true)
}

// releaseHold is shared by the delayed task, the sweep and the Stripe expired
// event. force skips the expiry check; expireSession also expires the Stripe
// checkout session so it can no longer be paid.
func (s *DefaultBookingService) releaseHold(ctx context.Context, bookingID string, force, expireSession bool) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return storeErr("failed to load booking", err)
	}
	if b.Status != models.StatusPending {
		return nil
	}
	now := s.now()
	if !force && b.HoldExpiresAt != nil && b.HoldExpiresAt.After(now) {
		return nil
	}

	var released *models.Booking
	err = s.Tx.WithTransaction(ctx, func(tx context.Context) error {
		var txErr error
		released, txErr = s.Bookings.TransitionStatus(tx, b.ID, []models.BookingStatus{models.StatusPending}, models.StatusCancelled, nil)
		if txErr != nil {
			if errors.Is(txErr, repository.ErrNotFound) {
				return errAlreadyHandled
			}
			return txErr
		}
		return s.Availability.DeleteHoldsByBooking(tx, b.ID)
	})
	if errors.Is(err, errAlreadyHandled) {
		return nil
	}
	if err != nil {
		return storeErr("failed to release hold", err)
	}

	if expireSession {
		s.expireSession(ctx, released.StripeSessionID)
	}
	bookingTransitions.WithLabelValues(string(models.StatusCancelled)).Inc()
	s.Logger.Info("Reservation hold released",
		zap.String("booking", released.ID), zap.String("order", released.OrderNumber))
	s.publish(ctx, models.EventBookingExpired, released)
	return nil
}

// SweepExpiredHolds releases every lapsed hold. It backs up the per-booking
// delayed task when that could not be scheduled or was lost.
func (s *DefaultBookingService) SweepExpiredHolds(ctx context.Context) (int, error) {
	expired, err := s.Bookings.ListExpiredHolds(ctx, s.now())
	if err != nil {
		return 0, storeErr("failed to list expired holds", err)
	}
	released := 0
	for _, b := range expired {
		if err := s.ExpireHold(ctx, b.ID); err != nil {
			s.Logger.Warn("failed to release expired hold", zap.String("booking", b.ID), zap.Error(err))
			continue
		}
		released++
	}
	return released, nil
}

// ReconcileInvoices issues invoices for paid bookings that committed without one.
func (s *DefaultBookingService) ReconcileInvoices(ctx context.Context) (int, error) {
	missing, err := s.Bookings.ListPaidWithoutInvoice(ctx, reconcileBatch)
	if err != nil {
		return 0, storeErr("failed to list bookings without invoice", err)
	}
	issued := 0
	for _, b := range missing {
		if _, err := s.Invoices.GenerateForBooking(ctx, b.ID); err != nil {
			s.Logger.Warn("invoice reconciliation failed", zap.String("booking", b.ID), zap.Error(err))
			continue
		}
		issued++
	}
	return issued, nil
}
