package serviceRepo

import (
	"context"
	"fmt"
	"time"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRepo(db *mongo.Database) *MongoServiceRepo {
	repo := &MongoServiceRepo{coll: db.Collection("services")}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create service indexes: %v\n", err)
	}
	return repo
}

func (r *MongoServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	if svc.Images == nil {
		svc.Images = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, svc); err != nil {
		return fmt.Errorf("failed to create service: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var svc models.Service
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		return nil, fmt.Errorf("failed to fetch service with id %s: %w", id, repository.Translate(err))
	}
	return &svc, nil
}

func (r *MongoServiceRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	return r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
}

func (r *MongoServiceRepo) GetAll(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Publish != "" {
		query["publish"] = filter.Publish
	}
	return r.find(ctx, query)
}

func (r *MongoServiceRepo) find(ctx context.Context, filter bson.M) ([]models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *MongoServiceRepo) Update(ctx context.Context, id string, fields bson.M) (*models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var svc models.Service
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&svc); err != nil {
		return nil, fmt.Errorf("failed to update service with id %s: %w", id, repository.Translate(err))
	}
	return &svc, nil
}

func (r *MongoServiceRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("service with id %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoServiceRepo) BumpReservationVersion(ctx context.Context, ids []string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"id": bson.M{"$in": ids}},
		bson.M{"$inc": bson.M{"reservationVersion": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to bump reservation version: %w", err)
	}
	return nil
}

func (r *MongoServiceRepo) MarkCheckedOut(ctx context.Context, ids []string, at time.Time) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"lastCheckoutTime": at, "isClean": false, "updatedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark services checked out: %w", err)
	}
	return nil
}
