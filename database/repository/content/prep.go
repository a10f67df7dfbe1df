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

type PrepRepository interface {
	Create(ctx context.Context, p *models.Prep) error
	GetByID(ctx context.Context, id string) (*models.Prep, error)
	List(ctx context.Context, filter models.PrepFilter) ([]models.Prep, error)
	Update(ctx context.Context, id string, fields bson.M) (*models.Prep, error)
	Delete(ctx context.Context, id string) error
}

type MongoPrepRepo struct {
	coll *mongo.Collection
}

func NewMongoPrepRepo(db *mongo.Database) *MongoPrepRepo {
	repo := &MongoPrepRepo{coll: db.Collection("preps")}
	bookingIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "booking", Value: 1}},
		Options: options.Index().SetName("booking_idx"),
	}
	if err := ensureIDIndex(repo.coll, bookingIdx); err != nil {
		fmt.Printf("failed to create prep indexes: %v\n", err)
	}
	return repo
}

func (r *MongoPrepRepo) Create(ctx context.Context, p *models.Prep) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert prep failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoPrepRepo) GetByID(ctx context.Context, id string) (*models.Prep, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var p models.Prep
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to fetch prep with id %s: %w", id, repository.Translate(err))
	}
	return &p, nil
}

func (r *MongoPrepRepo) List(ctx context.Context, filter models.PrepFilter) ([]models.Prep, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.Customer != "" {
		query["customer"] = filter.Customer
	}
	if filter.Booking != "" {
		query["booking"] = filter.Booking
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preps: %w", err)
	}
	preps := []models.Prep{}
	if err := cursor.All(ctx, &preps); err != nil {
		return nil, fmt.Errorf("failed to decode preps: %w", err)
	}
	return preps, nil
}

func (r *MongoPrepRepo) Update(ctx context.Context, id string, fields bson.M) (*models.Prep, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Prep
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to update prep with id %s: %w", id, repository.Translate(err))
	}
	return &p, nil
}

func (r *MongoPrepRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}
