package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepo implements userRepo.UserRepository.
type UserRepo struct{ s *Store }

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.users {
		if u.ID == user.ID || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findOne(func(u models.User) bool {
		return u.Email == strings.ToLower(strings.TrimSpace(email))
	})
}

func (r *UserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	if phone == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(func(u models.User) bool { return u.PhoneNumber == phone })
}

func (r *UserRepo) findOne(match func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	return r.find(func(u models.User) bool { return contains(ids, u.ID) }), nil
}

func (r *UserRepo) GetByRole(_ context.Context, role string) ([]models.User, error) {
	return r.find(func(u models.User) bool { return u.Role == role }), nil
}

func (r *UserRepo) GetAll(_ context.Context) ([]models.User, error) {
	return r.find(func(models.User) bool { return true }), nil
}

func (r *UserRepo) find(match func(models.User) bool) []models.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.User{}
	for _, u := range r.s.users {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *UserRepo) Update(_ context.Context, id string, fields bson.M) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fields["updatedAt"] = time.Now()
	updated, err := apply(u, fields)
	if err != nil {
		return nil, err
	}
	r.s.users[id] = updated
	return &updated, nil
}
