package userRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new user document. A taken email yields repository.ErrDuplicate.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", repository.Translate(err))
	}
	return nil
}

// Update sets the given fields and returns the updated document.
func (r *MongoUserRepo) Update(ctx context.Context, id string, fields bson.M) (*models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user with id %s: %w", id, repository.Translate(err))
	}
	return &user, nil
}
