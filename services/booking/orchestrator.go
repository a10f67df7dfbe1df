package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"glowbook/database"
	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/services/payment"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxOrderNumberAttempts = 5

// reservation is the outcome of the create transaction.
type reservation struct {
	booking     *models.Booking
	customer    *models.User
	services    map[string]models.Service
	addOns      *models.AdditionalItems
	unavailable []string
	stripeURL   string
}

// CreateBooking validates the request, reserves every available line and
// persists one booking. Cash bookings are paid and blocked immediately;
// hosted bookings stay pending behind a reservation hold until Stripe
// confirms payment.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	mode, ok := models.ParsePaymentMode(req.PaymentMode)
	if !ok {
		return nil, utils.Validation("paymentMode must be cash or hosted")
	}
	if len(req.Services) == 0 {
		return nil, utils.Validation("at least one service is required")
	}
	if err := validateAddOns(req.AdditionalItems); err != nil {
		return nil, err
	}
	stays := make([]stay, 0, len(req.Services))
	for _, line := range req.Services {
		st, err := s.normalize(line)
		if err != nil {
			return nil, err
		}
		stays = append(stays, st)
	}

	now := s.now()
	holdExpiry := now.Add(s.holdTTL())
	var sessionID string

	var res *reservation
	err := s.Tx.WithTransaction(ctx, func(tx context.Context) error {
		res = &reservation{}

		customer, err := s.resolveCustomer(tx, req.Customer)
		if err != nil {
			return err
		}
		res.customer = customer

		if res.services, err = s.loadServices(tx, stays); err != nil {
			return err
		}

		available, unavailable, err := s.partition(tx, stays, res.services, now)
		if err != nil {
			return err
		}
		res.unavailable = unavailable
		if len(available) == 0 {
			linesUnavailable.Add(float64(len(unavailable)))
			appErr := utils.Validation("No services available for the selected dates")
			appErr.Extra = gin.H{"unavailableServices": unavailable}
			return appErr
		}

		orderNumber, err := s.allocateOrderNumber(tx)
		if err != nil {
			return err
		}

		booking := &models.Booking{
			ID:          uuid.New().String(),
			OrderNumber: orderNumber,
			Customer:    customer.ID,
			Services:    available,
			TotalPrice:  BookingTotal(available, req.AdditionalItems),
			PaymentMode: mode,
			Status:      models.StatusPaid,
			Reference:   strings.TrimSpace(req.Reference),
			CreatedAt:   now,
		}
		if len(req.AdditionalItems) > 0 {
			res.addOns = &models.AdditionalItems{
				ID:          uuid.New().String(),
				Items:       req.AdditionalItems,
				TotalAmount: AddOnTotal(req.AdditionalItems),
				Customer:    customer.ID,
				Booking:     booking.ID,
				CreatedAt:   now,
			}
			booking.AdditionalItems = res.addOns.ID
		}

		if mode == models.PaymentModeHosted {
			session, err := s.Payments.CreateCheckoutSession(tx, payment.CheckoutRequest{
				BookingID:     booking.ID,
				OrderNumber:   booking.OrderNumber,
				CustomerEmail: customer.Email,
				Amount:        booking.TotalPrice,
				ExpiresAt:     holdExpiry,
			})
			if err != nil {
				return utils.Upstream("payment initialization failed", err)
			}
			sessionID = session.ID
			res.stripeURL = session.URL
			booking.Status = models.StatusPending
			booking.StripeSessionID = session.ID
			booking.HoldExpiresAt = &holdExpiry
		}

		if err := s.Services.BumpReservationVersion(tx, distinct(booking.ServiceIDs())); err != nil {
			return err
		}
		if err := s.Bookings.Create(tx, booking); err != nil {
			return err
		}
		if res.addOns != nil {
			if err := s.Bookings.SaveAdditionalItems(tx, res.addOns); err != nil {
				return err
			}
		}
		if mode == models.PaymentModeHosted {
			err = s.Availability.CreateHolds(tx, holdsFor(booking, holdExpiry, now))
		} else {
			err = s.Availability.CreateBlocks(tx, blocksFor(booking, now))
		}
		if err != nil {
			return err
		}
		res.booking = booking
		return nil
	})
	if err != nil {
		if sessionID != "" {
			s.expireSession(ctx, sessionID)
		}
		if database.IsWriteConflict(err) {
			reservationConflicts.Inc()
		}
		return nil, storeErr("failed to create booking", err)
	}

	booking := res.booking
	bookingsCreated.WithLabelValues(string(booking.PaymentMode)).Inc()
	if len(res.unavailable) > 0 {
		linesUnavailable.Add(float64(len(res.unavailable)))
	}
	s.Logger.Info("Booking created",
		zap.String("booking", booking.ID),
		zap.String("order", booking.OrderNumber),
		zap.String("mode", string(booking.PaymentMode)),
		zap.Int("lines", len(booking.Services)),
		zap.Int("unavailable", len(res.unavailable)))

	if booking.PaymentMode == models.PaymentModeHosted {
		if s.Scheduler != nil {
			if err := s.Scheduler.ScheduleHoldExpiry(ctx, booking.ID, *booking.HoldExpiresAt); err != nil {
				s.Logger.Warn("failed to schedule hold expiry, sweep will release it",
					zap.String("booking", booking.ID), zap.Error(err))
			}
		}
	} else {
		inv, err := s.Invoices.GenerateForBooking(ctx, booking.ID)
		if err != nil {
			s.Logger.Error("Invoice generation failed for committed booking",
				zap.String("booking", booking.ID), zap.Error(err))
			appErr := utils.Internal("Booking "+booking.OrderNumber+" was created but its invoice could not be generated", err)
			appErr.Extra = gin.H{"bookingId": booking.ID, "orderNumber": booking.OrderNumber}
			return nil, appErr
		}
		booking.InvoiceID = inv.ID
	}
	s.publish(ctx, models.EventBookingCreated, booking)

	unavailable := res.unavailable
	if unavailable == nil {
		unavailable = []string{}
	}
	return &models.CreateBookingResponse{
		Bookings:            []models.BookingView{buildView(booking, res.customer, res.services, res.addOns)},
		TotalPrice:          booking.TotalPrice,
		UnavailableServices: unavailable,
		StripeURL:           res.stripeURL,
		StripeSessionID:     booking.StripeSessionID,
	}, nil
}

// resolveCustomer finds the customer by email, then by phone, and otherwise
// creates a guest account.
func (s *DefaultBookingService) resolveCustomer(ctx context.Context, in models.CustomerInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, utils.Validation("customer email is required")
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	phone := strings.TrimSpace(in.PhoneNumber)
	if phone != "" {
		user, err = s.Users.GetByPhone(ctx, phone)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	first, last := splitName(in.Name)
	guest := &models.User{
		ID:          uuid.New().String(),
		FirstName:   first,
		LastName:    last,
		Email:       email,
		PhoneNumber: phone,
		Role:        models.RoleCustomer,
		Status:      models.UserStatusGuest,
	}
	if err := s.Users.Create(ctx, guest); err != nil {
		return nil, err
	}
	s.Logger.Info("Guest customer created", zap.String("user", guest.ID))
	return guest, nil
}

func (s *DefaultBookingService) loadServices(ctx context.Context, stays []stay) (map[string]models.Service, error) {
	ids := make([]string, 0, len(stays))
	for _, st := range stays {
		ids = append(ids, st.ServiceID)
	}
	ids = distinct(ids)

	found, err := s.Services.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, utils.NotFound("Service not found: " + id)
		}
	}
	return byID, nil
}

// partition splits the requested lines into bookable lines and the
// categories of the lines that are not. A line is rejected when the service
// is switched off, when a block or live hold overlaps it, or when an earlier
// line of the same request already took an overlapping range.
func (s *DefaultBookingService) partition(ctx context.Context, stays []stay, services map[string]models.Service, now time.Time) ([]models.BookedService, []string, error) {
	var (
		available   []models.BookedService
		unavailable []string
	)
	for _, st := range stays {
		svc := services[st.ServiceID]
		ok := svc.IsAvailable
		if ok {
			for _, taken := range available {
				if taken.ServiceID == st.ServiceID && Overlaps(taken.CheckIn, taken.CheckOut, st.Start, st.End) {
					ok = false
					break
				}
			}
		}
		if ok {
			conflict, err := s.Availability.HasConflict(ctx, st.ServiceID, st.Start, st.End, now)
			if err != nil {
				return nil, nil, err
			}
			ok = !conflict
		}
		if !ok {
			unavailable = append(unavailable, svc.Category)
			continue
		}
		available = append(available, models.BookedService{
			ServiceID: st.ServiceID,
			CheckIn:   st.Start,
			CheckOut:  st.End,
			Duration:  st.Days,
			TPrice:    LineTotal(&svc),
		})
	}
	return available, unavailable, nil
}

func (s *DefaultBookingService) allocateOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxOrderNumberAttempts; i++ {
		candidate := utils.NewOrderNumber()
		exists, err := s.Bookings.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", utils.Conflict("could not allocate an order number, please retry", nil)
}

func blocksFor(b *models.Booking, now time.Time) []models.AvailabilityBlock {
	blocks := make([]models.AvailabilityBlock, 0, len(b.Services))
	for _, line := range b.Services {
		blocks = append(blocks, models.AvailabilityBlock{
			ID:        uuid.New().String(),
			ServiceID: line.ServiceID,
			StartDate: line.CheckIn,
			EndDate:   line.CheckOut,
			BookingID: b.ID,
			CreatedAt: now,
		})
	}
	return blocks
}

func holdsFor(b *models.Booking, expiresAt, now time.Time) []models.ReservationHold {
	holds := make([]models.ReservationHold, 0, len(b.Services))
	for _, line := range b.Services {
		holds = append(holds, models.ReservationHold{
			ID:        uuid.New().String(),
			ServiceID: line.ServiceID,
			StartDate: line.CheckIn,
			EndDate:   line.CheckOut,
			BookingID: b.ID,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		})
	}
	return holds
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *DefaultBookingService) expireSession(ctx context.Context, sessionID string) {
	if s.Payments == nil || sessionID == "" {
		return
	}
	if err := s.Payments.ExpireCheckoutSession(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to expire checkout session", zap.String("session", sessionID), zap.Error(err))
	}
}
