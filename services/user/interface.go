package user

import (
	"context"
	"time"

	userRepo "glowbook/database/repository/user"
	"glowbook/models"

	"go.uber.org/zap"
)

type UserService interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResponse, error)

	// User Management
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetAllUsers(ctx context.Context, role string) ([]models.User, error)
	UpdateUser(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Logger   *zap.Logger
	TokenTTL time.Duration
}

// AuthResponse contains the user and the bearer token issued for it.
type AuthResponse struct {
	ID        string       `json:"id"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}
