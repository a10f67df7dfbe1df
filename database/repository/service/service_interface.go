package serviceRepo

import (
	"context"
	"time"

	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ServiceRepository defines methods for catalog data access.
type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// GetByIDs returns the services that exist among ids; missing ids are simply absent.
	GetByIDs(ctx context.Context, ids []string) ([]models.Service, error)
	GetAll(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error)
	Update(ctx context.Context, id string, fields bson.M) (*models.Service, error)
	Delete(ctx context.Context, id string) error

	// BumpReservationVersion increments reservationVersion on each service so
	// concurrent transactions reserving the same service conflict.
	BumpReservationVersion(ctx context.Context, ids []string) error
	// MarkCheckedOut stamps lastCheckoutTime and clears isClean.
	MarkCheckedOut(ctx context.Context, ids []string, at time.Time) error
}
