package user

import (
	"context"
	"errors"
	"strings"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal("failed to fetch user", err)
	}
	return user, nil
}

// GetAllUsers lists every user, or only those with role when it is set.
func (s *DefaultUserService) GetAllUsers(ctx context.Context, role string) ([]models.User, error) {
	var (
		users []models.User
		err   error
	)
	if role != "" {
		users, err = s.Repo.GetByRole(ctx, role)
	} else {
		users, err = s.Repo.GetAll(ctx)
	}
	if err != nil {
		return nil, utils.Internal("failed to fetch users", err)
	}
	return users, nil
}

// UpdateUser applies the allow-listed profile fields. Email, role and
// password are not reachable from here.
func (s *DefaultUserService) UpdateUser(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	fields := bson.M{}
	set := func(key string, v *string) {
		if v != nil {
			fields[key] = strings.TrimSpace(*v)
		}
	}
	set("firstName", req.FirstName)
	set("lastName", req.LastName)
	set("phoneNumber", req.PhoneNumber)
	set("country", req.Country)
	set("img", req.Img)
	set("identificationNumber", req.IdentificationNumber)

	if v, ok := fields["firstName"]; ok && v == "" {
		return nil, utils.Validation("firstName must not be empty")
	}
	if len(fields) == 0 {
		return s.GetUserByID(ctx, userID)
	}

	user, err := s.Repo.Update(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal("failed to update user", err)
	}
	return user, nil
}
