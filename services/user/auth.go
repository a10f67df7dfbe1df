package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 48 * time.Hour

// Register creates an active customer account. A guest account created by an
// earlier booking with the same email is claimed instead of duplicated.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.FirstName) == "" {
		return nil, utils.Validation("firstName and email are required")
	}
	if len(req.Password) < 6 {
		return nil, utils.Validation("password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Internal("registration failed, please try again", err)
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Status != models.UserStatusGuest:
		return nil, utils.Conflict("a user with this email already exists", nil)
	case err == nil:
		claimed, err := s.Repo.Update(ctx, existing.ID, bson.M{
			"firstName":    strings.TrimSpace(req.FirstName),
			"lastName":     strings.TrimSpace(req.LastName),
			"phoneNumber":  strings.TrimSpace(req.PhoneNumber),
			"country":      strings.TrimSpace(req.Country),
			"passwordHash": string(hash),
			"status":       models.UserStatusActive,
		})
		if err != nil {
			return nil, utils.Internal("registration failed, please try again", err)
		}
		s.Logger.Info("Guest account claimed", zap.String("user", claimed.ID))
		return s.issue(claimed)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, utils.Internal("registration failed, please try again", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Country:      strings.TrimSpace(req.Country),
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("a user with this email already exists", err)
		}
		return nil, utils.Internal("registration failed, please try again", err)
	}
	s.Logger.Info("User registered", zap.String("user", user.ID))
	return s.issue(user)
}

// Login checks the password and issues a bearer token.
func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (*AuthResponse, error) {
	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Unauthorized("invalid email or password")
		}
		s.Logger.Error("Login: failed to fetch user", zap.Error(err))
		return nil, utils.Internal("authentication failed, please try again", err)
	}
	if user.PasswordHash == "" {
		return nil, utils.Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.Unauthorized("invalid email or password")
	}
	return s.issue(user)
}

func (s *DefaultUserService) issue(user *models.User) (*AuthResponse, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	token, err := utils.GenerateToken(user.ID, user.Role, ttl)
	if err != nil {
		return nil, utils.Internal("authentication failed, please try again", err)
	}
	return &AuthResponse{
		ID:        user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
		User:      user,
	}, nil
}
