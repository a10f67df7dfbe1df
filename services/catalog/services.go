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
	"go.uber.org/zap"
)

func (s *DefaultCatalogService) CreateService(ctx context.Context, in models.ServiceInput, images []Upload) (*models.Service, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, utils.Validation("title is required")
	}
	if in.Price == nil || *in.Price < 0 {
		return nil, utils.Validation("price must be zero or more")
	}
	if !models.ValidCategory(in.Category) {
		return nil, utils.Validation("unknown category " + in.Category)
	}
	publish, err := publishState(in.Publish)
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, images)
	if err != nil {
		return nil, err
	}
	svc := &models.Service{
		ID:           uuid.New().String(),
		Title:        title,
		Price:        utils.RoundMoney(*in.Price),
		Description:  strings.TrimSpace(in.Description),
		Images:       urls,
		Category:     in.Category,
		Availability: strings.TrimSpace(in.Availability),
		IsAvailable:  in.IsAvailable == nil || *in.IsAvailable,
		Publish:      publish,
		IsClean:      true,
	}
	if err := s.Services.Create(ctx, svc); err != nil {
		s.deleteAll(ctx, urls)
		return nil, utils.Internal("failed to create service", err)
	}
	s.Logger.Info("Service created", zap.String("service", svc.ID), zap.String("title", svc.Title))
	return svc, nil
}

// UpdateService applies the non-empty form fields. Images not listed in
// previousImages are deleted from storage; uploaded files are appended.
func (s *DefaultCatalogService) UpdateService(ctx context.Context, id string, in models.ServiceInput, images []Upload) (*models.Service, error) {
	current, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if t := strings.TrimSpace(in.Title); t != "" {
		fields["title"] = t
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, utils.Validation("price must be zero or more")
		}
		fields["price"] = utils.RoundMoney(*in.Price)
	}
	if in.Description != "" {
		fields["description"] = strings.TrimSpace(in.Description)
	}
	if in.Category != "" {
		if !models.ValidCategory(in.Category) {
			return nil, utils.Validation("unknown category " + in.Category)
		}
		fields["category"] = in.Category
	}
	if in.Availability != "" {
		fields["availability"] = strings.TrimSpace(in.Availability)
	}
	if in.IsAvailable != nil {
		fields["isAvailable"] = *in.IsAvailable
	}
	if in.Publish != "" {
		publish, err := publishState(in.Publish)
		if err != nil {
			return nil, err
		}
		fields["publish"] = publish
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

	updated, err := s.Services.Update(ctx, id, fields)
	if err != nil {
		s.deleteAll(ctx, uploaded)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service not found")
		}
		return nil, utils.Internal("failed to update service", err)
	}
	s.deleteAll(ctx, removed)
	return updated, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Service not found")
		}
		return nil, utils.Internal("failed to fetch service", err)
	}
	return svc, nil
}

func (s *DefaultCatalogService) ListServices(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	services, err := s.Services.GetAll(ctx, filter)
	if err != nil {
		return nil, utils.Internal("failed to fetch services", err)
	}
	return services, nil
}

// DeleteService refuses while the service still has upcoming blocks.
func (s *DefaultCatalogService) DeleteService(ctx context.Context, id string) error {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return err
	}
	upcoming, err := s.Availability.ListBlocks(ctx, id, s.now())
	if err != nil {
		return utils.Internal("failed to check service bookings", err)
	}
	if len(upcoming) > 0 {
		return utils.Conflict("Service has upcoming bookings", nil)
	}
	if err := s.Services.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Service not found")
		}
		return utils.Internal("failed to delete service", err)
	}
	s.deleteAll(ctx, svc.Images)
	s.Logger.Info("Service deleted", zap.String("service", id))
	return nil
}

func publishState(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", models.PublishPublished:
		return models.PublishPublished, nil
	case models.PublishDraft:
		return models.PublishDraft, nil
	}
	return "", utils.Validation("publish must be published or draft")
}
