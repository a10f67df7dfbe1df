package catalog

import (
	"context"
	"io"
	"time"

	availabilityRepo "glowbook/database/repository/availability"
	contentRepo "glowbook/database/repository/content"
	serviceRepo "glowbook/database/repository/service"
	"glowbook/models"
	"glowbook/services/storage"

	"go.uber.org/zap"
)

// Upload is one image received with a create or update form.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// CatalogService manages bookable services and homepage slides together with
// their hosted images.
type CatalogService interface {
	CreateService(ctx context.Context, in models.ServiceInput, images []Upload) (*models.Service, error)
	UpdateService(ctx context.Context, id string, in models.ServiceInput, images []Upload) (*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error)
	DeleteService(ctx context.Context, id string) error

	CreateCarousel(ctx context.Context, in models.CarouselInput, images []Upload) (*models.Carousel, error)
	UpdateCarousel(ctx context.Context, id string, in models.CarouselInput, images []Upload) (*models.Carousel, error)
	GetCarousel(ctx context.Context, id string) (*models.Carousel, error)
	ListCarousels(ctx context.Context, activeOnly bool) ([]models.Carousel, error)
	DeleteCarousel(ctx context.Context, id string) error
}

type DefaultCatalogService struct {
	Services     serviceRepo.ServiceRepository
	Carousels    contentRepo.CarouselRepository
	Availability availabilityRepo.AvailabilityRepository
	Storage      storage.StorageService
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultCatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
