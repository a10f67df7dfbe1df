package userRepo

import (
	"context"
	"fmt"
	"strings"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	repo := &MongoUserRepo{coll: db.Collection("users")}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create user indexes: %v\n", err)
	}
	return repo
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, repository.Translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepo) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return user, nil
}

// GetByEmail matches case-insensitively; emails are stored lowercased.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with email %s: %w", email, err)
	}
	return user, nil
}

func (r *MongoUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, repository.ErrNotFound
	}
	user, err := r.findOne(ctx, bson.M{"phoneNumber": phone})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with phone %s: %w", phone, err)
	}
	return user, nil
}

func (r *MongoUserRepo) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users, err := r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepo) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	users, err := r.find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users with role %s: %w", role, err)
	}
	return users, nil
}

func (r *MongoUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}
