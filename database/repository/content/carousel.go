package contentRepo

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

type CarouselRepository interface {
	Create(ctx context.Context, c *models.Carousel) error
	GetByID(ctx context.Context, id string) (*models.Carousel, error)
	GetAll(ctx context.Context, activeOnly bool) ([]models.Carousel, error)
	Update(ctx context.Context, id string, fields bson.M) (*models.Carousel, error)
	Delete(ctx context.Context, id string) error
}

type MongoCarouselRepo struct {
	coll *mongo.Collection
}

func NewMongoCarouselRepo(db *mongo.Database) *MongoCarouselRepo {
	repo := &MongoCarouselRepo{coll: db.Collection("carousels")}
	if err := ensureIDIndex(repo.coll); err != nil {
		fmt.Printf("failed to create carousel indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCarouselRepo) Create(ctx context.Context, c *models.Carousel) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Images == nil {
		c.Images = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert carousel failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoCarouselRepo) GetByID(ctx context.Context, id string) (*models.Carousel, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var c models.Carousel
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to fetch carousel with id %s: %w", id, repository.Translate(err))
	}
	return &c, nil
}

func (r *MongoCarouselRepo) GetAll(ctx context.Context, activeOnly bool) ([]models.Carousel, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch carousels: %w", err)
	}
	items := []models.Carousel{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode carousels: %w", err)
	}
	return items, nil
}

func (r *MongoCarouselRepo) Update(ctx context.Context, id string, fields bson.M) (*models.Carousel, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Carousel
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to update carousel with id %s: %w", id, repository.Translate(err))
	}
	return &c, nil
}

func (r *MongoCarouselRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func ensureIDIndex(coll *mongo.Collection, extra ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := append([]mongo.IndexModel{{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	}}, extra...)
	_, err := coll.Indexes().CreateMany(ctx, indexModels)
	return err
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", coll.Name(), id, repository.ErrNotFound)
	}
	return nil
}
