package booking

import (
	"context"
	"errors"
	"strings"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// releasing statuses free the booking's blocks and holds.
var releasing = map[models.BookingStatus]bool{
	models.StatusCancelled:  true,
	models.StatusCheckedOut: true,
	models.StatusNoShow:     true,
	models.StatusRefunded:   true,
}

func (s *DefaultBookingService) GetByID(ctx context.Context, bookingID string) (*models.BookingView, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, loadErr("Booking", err)
	}
	views, err := s.populate(ctx, []models.Booking{*b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *DefaultBookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.Validation("unknown booking status " + string(filter.Status))
	}
	bookings, err := s.Bookings.List(ctx, filter)
	if err != nil {
		return nil, storeErr("failed to list bookings", err)
	}
	return s.populate(ctx, bookings)
}

// Update changes the reference or moves the status along the lifecycle.
// pending to paid goes through ConfirmPayment so blocks and the invoice
// follow; statuses that end a stay free the booking's ranges.
func (s *DefaultBookingService) Update(ctx context.Context, bookingID string, req models.BookingUpdateRequest) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, loadErr("Booking", err)
	}

	fields := bson.M{}
	if req.Reference != nil {
		fields["reference"] = strings.TrimSpace(*req.Reference)
	}

	if req.Status == nil || *req.Status == b.Status {
		if len(fields) == 0 {
			return b, nil
		}
		updated, err := s.Bookings.Update(ctx, b.ID, fields)
		if err != nil {
			return nil, loadErr("Booking", err)
		}
		return updated, nil
	}

	next := *req.Status
	if !next.Valid() {
		return nil, utils.Validation("unknown booking status " + string(next))
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, utils.Validation("cannot move booking from " + string(b.Status) + " to " + string(next))
	}

	if b.Status == models.StatusPending && next == models.StatusPaid {
		confirmed, err := s.ConfirmPayment(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return confirmed, nil
		}
		updated, err := s.Bookings.Update(ctx, b.ID, fields)
		if err != nil {
			return nil, loadErr("Booking", err)
		}
		return updated, nil
	}

	var updated *models.Booking
	err = s.Tx.WithTransaction(ctx, func(tx context.Context) error {
		var txErr error
		updated, txErr = s.Bookings.TransitionStatus(tx, b.ID, []models.BookingStatus{b.Status}, next, fields)
		if txErr != nil {
			if errors.Is(txErr, repository.ErrNotFound) {
				return utils.Conflict("Booking changed concurrently, please retry", txErr)
			}
			return txErr
		}
		if !releasing[next] {
			return nil
		}
		if err := s.release(tx, b.ID); err != nil {
			return err
		}
		if next == models.StatusCheckedOut {
			return s.Services.MarkCheckedOut(tx, distinct(b.ServiceIDs()), s.now())
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("failed to update booking", err)
	}

	if b.Status == models.StatusPending && (next == models.StatusCancelled || next == models.StatusCheckedOut) {
		s.expireSession(ctx, b.StripeSessionID)
	}
	switch next {
	case models.StatusCancelled:
		s.publish(ctx, models.EventBookingCancelled, updated)
	case models.StatusCheckedOut:
		s.publish(ctx, models.EventBookingCheckout, updated)
	}
	bookingTransitions.WithLabelValues(string(next)).Inc()
	s.Logger.Info("Booking status changed",
		zap.String("booking", b.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(next)))
	return updated, nil
}

// Delete removes the booking with its blocks, holds and add-ons.
func (s *DefaultBookingService) Delete(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return loadErr("Booking", err)
	}
	err = s.Tx.WithTransaction(ctx, func(tx context.Context) error {
		if err := s.Bookings.Delete(tx, b.ID); err != nil {
			return err
		}
		if err := s.release(tx, b.ID); err != nil {
			return err
		}
		return s.Bookings.DeleteAdditionalItemsByBooking(tx, b.ID)
	})
	if err != nil {
		return loadErr("Booking", err)
	}
	if b.Status == models.StatusPending {
		s.expireSession(ctx, b.StripeSessionID)
	}
	s.Logger.Info("Booking deleted", zap.String("booking", b.ID), zap.String("order", b.OrderNumber))
	return nil
}

// ServiceAvailability lists the confirmed ranges of a service that have not
// ended yet.
func (s *DefaultBookingService) ServiceAvailability(ctx context.Context, serviceID string) ([]models.AvailabilityBlock, error) {
	if _, err := s.Services.GetByID(ctx, serviceID); err != nil {
		return nil, loadErr("Service", err)
	}
	blocks, err := s.Availability.ListBlocks(ctx, serviceID, s.now())
	if err != nil {
		return nil, storeErr("failed to list availability", err)
	}
	return blocks, nil
}

// populate attaches customers, services and add-ons with one query per
// collection.
func (s *DefaultBookingService) populate(ctx context.Context, bookings []models.Booking) ([]models.BookingView, error) {
	var customerIDs, serviceIDs, addOnIDs []string
	for _, b := range bookings {
		customerIDs = append(customerIDs, b.Customer)
		serviceIDs = append(serviceIDs, b.ServiceIDs()...)
		if b.AdditionalItems != "" {
			addOnIDs = append(addOnIDs, b.AdditionalItems)
		}
	}

	users, err := s.Users.GetByIDs(ctx, distinct(customerIDs))
	if err != nil {
		return nil, storeErr("failed to load customers", err)
	}
	services, err := s.Services.GetByIDs(ctx, distinct(serviceIDs))
	if err != nil {
		return nil, storeErr("failed to load services", err)
	}
	addOns, err := s.Bookings.ListAdditionalItems(ctx, addOnIDs)
	if err != nil {
		return nil, storeErr("failed to load additional items", err)
	}

	userByID := make(map[string]*models.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}
	serviceByID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		serviceByID[svc.ID] = svc
	}
	addOnByID := make(map[string]*models.AdditionalItems, len(addOns))
	for i := range addOns {
		addOnByID[addOns[i].ID] = &addOns[i]
	}

	views := make([]models.BookingView, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		views = append(views, buildView(b, userByID[b.Customer], serviceByID, addOnByID[b.AdditionalItems]))
	}
	return views, nil
}

func buildView(b *models.Booking, customer *models.User, services map[string]models.Service, addOns *models.AdditionalItems) models.BookingView {
	view := models.BookingView{Booking: *b, AdditionalItemsDetails: addOns}
	if customer != nil {
		view.CustomerDetails = customer.Summary()
	}
	for _, id := range distinct(b.ServiceIDs()) {
		if svc, ok := services[id]; ok {
			view.ServiceDetails = append(view.ServiceDetails, svc.Summary())
		}
	}
	return view
}
