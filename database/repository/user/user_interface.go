package userRepo

import (
	"context"

	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	GetByRole(ctx context.Context, role string) ([]models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	// Update applies a $set of the given fields and returns the updated user.
	Update(ctx context.Context, id string, fields bson.M) (*models.User, error)
}
