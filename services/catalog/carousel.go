package catalog

import (
	"context"
	"errors"
	"strings"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func (s *DefaultCatalogService) CreateCarousel(ctx context.Context, in models.CarouselInput, images []Upload) (*models.Carousel, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, utils.Validation("title is required")
	}
	if len(images) == 0 {
		return nil, utils.Validation("at least one image is required")
	}
	urls, err := s.uploadAll(ctx, images)
	if err != nil {
		return nil, err
	}
	slide := &models.Carousel{
		ID:       uuid.New().String(),
		Title:    title,
		IsActive: in.IsActive == nil || *in.IsActive,
		Images:   urls,
		AltText:  strings.TrimSpace(in.AltText),
	}
	if err := s.Carousels.Create(ctx, slide); err != nil {
		s.deleteAll(ctx, urls)
		return nil, utils.Internal("failed to create carousel", err)
	}
	return slide, nil
}

func (s *DefaultCatalogService) UpdateCarousel(ctx context.Context, id string, in models.CarouselInput, images []Upload) (*models.Carousel, error) {
	current, err := s.GetCarousel(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if t := strings.TrimSpace(in.Title); t != "" {
		fields["title"] = t
	}
	if in.IsActive != nil {
		fields["isActive"] = *in.IsActive
	}
	if in.AltText != "" {
		fields["altText"] = strings.TrimSpace(in.AltText)
	}

	kept, removed := retain(current.Images, in.PreviousImages)
	uploaded, err := s.uploadAll(ctx, images)
	if err != nil {
		return nil, err
	}
	if in.PreviousImages != nil || len(uploaded) > 0 {
		fields["images"] = append(kept, uploaded...)
	}
	if len(fields) == 0 {
		return current, nil
	}

	updated, err := s.Carousels.Update(ctx, id, fields)
	if err != nil {
		s.deleteAll(ctx, uploaded)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Carousel not found")
		}
		return nil, utils.Internal("failed to update carousel", err)
	}
	s.deleteAll(ctx, removed)
	return updated, nil
}

func (s *DefaultCatalogService) GetCarousel(ctx context.Context, id string) (*models.Carousel, error) {
	slide, err := s.Carousels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Carousel not found")
		}
		return nil, utils.Internal("failed to fetch carousel", err)
	}
	return slide, nil
}

func (s *DefaultCatalogService) ListCarousels(ctx context.Context, activeOnly bool) ([]models.Carousel, error) {
	slides, err := s.Carousels.GetAll(ctx, activeOnly)
	if err != nil {
		return nil, utils.Internal("failed to fetch carousels", err)
	}
	return slides, nil
}

func (s *DefaultCatalogService) DeleteCarousel(ctx context.Context, id string) error {
	slide, err := s.GetCarousel(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Carousels.Delete(ctx, id); err != nil {
		return utils.Internal("failed to delete carousel", err)
	}
	s.deleteAll(ctx, slide.Images)
	return nil
}
