package prep

import (
	"context"
	"errors"
	"strings"

	"glowbook/database/repository"
	bookingRepo "glowbook/database/repository/booking"
	contentRepo "glowbook/database/repository/content"
	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// PrepService stores the preparation notes a customer leaves for an
// appointment.
type PrepService interface {
	Create(ctx context.Context, req models.PrepRequest) (*models.Prep, error)
	GetByID(ctx context.Context, id string) (*models.Prep, error)
	List(ctx context.Context, filter models.PrepFilter) ([]models.Prep, error)
	Update(ctx context.Context, id string, req models.PrepUpdateRequest) (*models.Prep, error)
	Delete(ctx context.Context, id string) error
}

type DefaultPrepService struct {
	Repo     contentRepo.PrepRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// Create attaches notes to a booking owned by req.Customer.
func (s *DefaultPrepService) Create(ctx context.Context, req models.PrepRequest) (*models.Prep, error) {
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, utils.Validation("notes are required")
	}
	booking, err := s.Bookings.GetByID(ctx, req.Booking)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Booking not found")
		}
		return nil, utils.Internal("failed to fetch booking", err)
	}
	customer := req.Customer
	if customer == "" {
		customer = booking.Customer
	}
	if booking.Customer != customer {
		return nil, utils.Validation("booking does not belong to this customer")
	}

	p := &models.Prep{
		ID:       uuid.New().String(),
		Customer: customer,
		Booking:  booking.ID,
		Notes:    notes,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, utils.Internal("failed to save prep", err)
	}
	s.Logger.Debug("Prep created", zap.String("prep", p.ID), zap.String("booking", p.Booking))
	return p, nil
}

func (s *DefaultPrepService) GetByID(ctx context.Context, id string) (*models.Prep, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Prep not found")
		}
		return nil, utils.Internal("failed to fetch prep", err)
	}
	return p, nil
}

func (s *DefaultPrepService) List(ctx context.Context, filter models.PrepFilter) ([]models.Prep, error) {
	preps, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, utils.Internal("failed to fetch preps", err)
	}
	return preps, nil
}

func (s *DefaultPrepService) Update(ctx context.Context, id string, req models.PrepUpdateRequest) (*models.Prep, error) {
	if req.Notes == nil {
		return s.GetByID(ctx, id)
	}
	notes := strings.TrimSpace(*req.Notes)
	if notes == "" {
		return nil, utils.Validation("notes cannot be empty")
	}
	p, err := s.Repo.Update(ctx, id, bson.M{"notes": notes})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Prep not found")
		}
		return nil, utils.Internal("failed to update prep", err)
	}
	return p, nil
}

func (s *DefaultPrepService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Prep not found")
		}
		return utils.Internal("failed to delete prep", err)
	}
	return nil
}
