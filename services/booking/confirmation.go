package booking

import (
	"context"
	"errors"
	"time"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/services/payment"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ConfirmPayment converts the holds of a pending hosted booking into blocks
// and marks it paid. Repeated confirmations are no-ops. A paid booking that
// is still missing its invoice gets one, so a redelivered webhook heals a
// failed invoice run.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, bookingID string) (*models.Booking, error) {
	now := s.now()
	var (
		result       *models.Booking
		doubleBooked bool
	)
	err := s.Tx.WithTransaction(ctx, func(tx context.Context) error {
		b, err := s.Bookings.GetByID(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != models.StatusPending {
			return errAlreadyHandled
		}
		if err := s.Availability.DeleteHoldsByBooking(tx, b.ID); err != nil {
			return err
		}

		// The hold may have lapsed and the range been taken before the
		// webhook arrived.
		for _, line := range b.Services {
			conflict, err := s.Availability.HasConflict(tx, line.ServiceID, line.CheckIn, line.CheckOut, now)
			if err != nil {
				return err
			}
			if conflict {
				doubleBooked = true
				break
			}
		}
		if doubleBooked {
			services, err := s.Services.GetByIDs(tx, distinct(b.ServiceIDs()))
			if err != nil {
				return err
			}
			result, err = s.Bookings.TransitionStatus(tx, b.ID, []models.BookingStatus{models.StatusPending}, models.StatusCancelled, nil)
			if err != nil {
				return err
			}
			return s.Bookings.SaveCancellation(tx, refundRecord(result, services, models.CancelDouble,
				"payment received after the reserved range was taken", now))
		}

		if err := s.Services.BumpReservationVersion(tx, distinct(b.ServiceIDs())); err != nil {
			return err
		}
		result, err = s.Bookings.TransitionStatus(tx, b.ID, []models.BookingStatus{models.StatusPending}, models.StatusPaid,
			bson.M{"holdExpiresAt": nil, "paidAt": now})
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errAlreadyHandled
			}
			return err
		}
		return s.Availability.CreateBlocks(tx, blocksFor(result, now))
	})

	switch {
	case errors.Is(err, errAlreadyHandled):
		b, err := s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, loadErr("Booking", err)
		}
		s.Logger.Info("Ignoring repeated payment confirmation",
			zap.String("booking", b.ID), zap.String("status", string(b.Status)))
		result = b
	case err != nil:
		return nil, loadErr("Booking", err)
	case doubleBooked:
		bookingTransitions.WithLabelValues(string(models.StatusCancelled)).Inc()
		s.Logger.Error("Paid booking lost its range, refund required",
			zap.String("booking", result.ID), zap.String("order", result.OrderNumber))
		s.publish(ctx, models.EventBookingCancelled, result)
		return result, nil
	default:
		bookingTransitions.WithLabelValues(string(models.StatusPaid)).Inc()
		s.Logger.Info("Booking paid", zap.String("booking", result.ID), zap.String("order", result.OrderNumber))
		s.publish(ctx, models.EventBookingPaid, result)
	}

	if result.Status == models.StatusPaid && result.InvoiceID == "" {
		inv, err := s.Invoices.GenerateForBooking(ctx, result.ID)
		if err != nil {
			s.Logger.Error("Invoice generation failed for paid booking",
				zap.String("booking", result.ID), zap.Error(err))
			return nil, err
		}
		result.InvoiceID = inv.ID
	}
	return result, nil
}

// HandleWebhook applies a verified Stripe checkout event.
func (s *DefaultBookingService) HandleWebhook(ctx context.Context, event *payment.WebhookEvent) error {
	if event.BookingID == "" {
		s.Logger.Warn("Checkout event without booking id",
			zap.String("type", event.Type), zap.String("session", event.SessionID))
		return nil
	}
	b, err := s.Bookings.GetByID(ctx, event.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Logger.Warn("Checkout event for unknown booking", zap.String("booking", event.BookingID))
			return nil
		}
		return storeErr("failed to load booking", err)
	}
	if b.StripeSessionID != event.SessionID {
		s.Logger.Warn("Checkout event for a superseded session",
			zap.String("booking", b.ID), zap.String("session", event.SessionID))
		return nil
	}

	switch event.Type {
	case payment.EventCheckoutCompleted, payment.EventAsyncPaymentSucceeded:
		if !event.Paid {
			s.Logger.Info("Checkout completed without payment, waiting", zap.String("booking", b.ID))
			return nil
		}
		return s.applyPayment(ctx, b)
	case payment.EventAsyncPaymentFailed:
		s.Logger.Info("Delayed payment failed", zap.String("booking", b.ID))
		return s.releaseHold(ctx, b.ID, true, false)
	case payment.EventCheckoutExpired:
		return s.releaseHold(ctx, b.ID, true, false)
	}
	return nil
}

// applyPayment confirms a pending booking. A booking that left pending
// without ever being paid (released, cancelled or checked out) owes a refund.
func (s *DefaultBookingService) applyPayment(ctx context.Context, b *models.Booking) error {
	if b.Status != models.StatusPending && b.PaidAt == nil {
		return s.recordLatePayment(ctx, b)
	}
	_, err := s.ConfirmPayment(ctx, b.ID)
	return err
}

// recordLatePayment flags a payment that landed on an already released
// booking for refund. The record id is derived from the booking so a
// redelivered event cannot file a second refund.
func (s *DefaultBookingService) recordLatePayment(ctx context.Context, b *models.Booking) error {
	services, err := s.Services.GetByIDs(ctx, distinct(b.ServiceIDs()))
	if err != nil {
		return storeErr("failed to load services", err)
	}
	rec := refundRecord(b, services, models.CancelOther, "payment received after the hold was released", s.now())
	if err := s.Bookings.SaveCancellation(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.Logger.Info("Refund already recorded for late payment", zap.String("booking", b.ID))
			return nil
		}
		return storeErr("failed to record refund", err)
	}
	s.Logger.Error("Payment received for a released booking, refund required",
		zap.String("booking", b.ID),
		zap.String("order", b.OrderNumber),
		zap.String("status", string(b.Status)))
	return nil
}

// refundID names the single refund record a payment can produce for a booking.
func refundID(bookingID string) string {
	return "refund-" + bookingID
}

func refundRecord(b *models.Booking, services []models.Service, kind models.CancellationType, reason string, at time.Time) *models.BookingCancellation {
	titles := serviceTitles(services)
	lines := make([]models.CancelledService, 0, len(b.Services))
	for _, l := range b.Services {
		lines = append(lines, models.CancelledService{
			Title:            titles.of(l.ServiceID),
			Price:            l.TPrice,
			RefundableAmount: l.TPrice,
		})
	}
	return &models.BookingCancellation{
		ID:               refundID(b.ID),
		Booking:          b.ID,
		Customer:         b.Customer,
		Reason:           reason,
		CancellationType: kind,
		RefundStatus:     models.RefundPending,
		RefundAmount:     b.TotalPrice,
		OriginalAmount:   b.TotalPrice,
		CancellationDate: at,
		Services:         lines,
	}
}
