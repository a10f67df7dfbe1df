package memstore

import (
	"context"
	"sort"
	"time"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ServiceRepo implements serviceRepo.ServiceRepository.
type ServiceRepo struct{ s *Store }

func (s *Store) Services() *ServiceRepo { return &ServiceRepo{s: s} }

func (r *ServiceRepo) Create(_ context.Context, svc *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[svc.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = now
	}
	svc.UpdatedAt = now
	r.s.services[svc.ID] = *svc
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &svc, nil
}

func (r *ServiceRepo) GetByIDs(_ context.Context, ids []string) ([]models.Service, error) {
	return r.find(func(s models.Service) bool { return contains(ids, s.ID) }), nil
}

func (r *ServiceRepo) GetAll(_ context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	return r.find(func(s models.Service) bool {
		return (filter.Category == "" || s.Category == filter.Category) &&
			(filter.Publish == "" || s.Publish == filter.Publish)
	}), nil
}

func (r *ServiceRepo) find(match func(models.Service) bool) []models.Service {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Service{}
	for _, svc := range r.s.services {
		if match(svc) {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ServiceRepo) Update(_ context.Context, id string, fields bson.M) (*models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fields["updatedAt"] = time.Now()
	updated, err := apply(svc, fields)
	if err != nil {
		return nil, err
	}
	r.s.services[id] = updated
	return &updated, nil
}

func (r *ServiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

func (r *ServiceRepo) BumpReservationVersion(_ context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if svc, ok := r.s.services[id]; ok {
			svc.ReservationVersion++
			r.s.services[id] = svc
		}
	}
	return nil
}

func (r *ServiceRepo) MarkCheckedOut(_ context.Context, ids []string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if svc, ok := r.s.services[id]; ok {
			t := at
			svc.LastCheckoutTime = &t
			svc.IsClean = false
			svc.UpdatedAt = at
			r.s.services[id] = svc
		}
	}
	return nil
}
