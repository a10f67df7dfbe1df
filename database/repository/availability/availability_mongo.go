package availabilityRepo

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

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	blockColl *mongo.Collection
	holdColl  *mongo.Collection
}

func NewMongoAvailabilityRepo(db *mongo.Database) *MongoAvailabilityRepo {
	repo := &MongoAvailabilityRepo{
		blockColl: db.Collection("service_availability"),
		holdColl:  db.Collection("reservation_holds"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create availability indexes: %v\n", err)
	}
	return repo
}

// overlapFilter matches stored ranges intersecting [start, end], endpoints included.
func overlapFilter(serviceID string, start, end time.Time) bson.M {
	return bson.M{
		"serviceId": serviceID,
		"startDate": bson.M{"$lte": end},
		"endDate":   bson.M{"$gte": start},
	}
}

func (r *MongoAvailabilityRepo) HasConflict(ctx context.Context, serviceID string, start, end, now time.Time) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	n, err := r.blockColl.CountDocuments(ctx, overlapFilter(serviceID, start, end), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check blocks for service %s: %w", serviceID, err)
	}
	if n > 0 {
		return true, nil
	}

	holdFilter := overlapFilter(serviceID, start, end)
	holdFilter["expiresAt"] = bson.M{"$gt": now}
	n, err = r.holdColl.CountDocuments(ctx, holdFilter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check holds for service %s: %w", serviceID, err)
	}
	return n > 0, nil
}

func (r *MongoAvailabilityRepo) ListBlocks(ctx context.Context, serviceID string, from time.Time) ([]models.AvailabilityBlock, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"serviceId": serviceID, "endDate": bson.M{"$gte": from}}
	cursor, err := r.blockColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocks for service %s: %w", serviceID, err)
	}
	blocks := []models.AvailabilityBlock{}
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	return blocks, nil
}

func (r *MongoAvailabilityRepo) CreateBlocks(ctx context.Context, blocks []models.AvailabilityBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	docs := make([]interface{}, 0, len(blocks))
	for i := range blocks {
		docs = append(docs, blocks[i])
	}
	if _, err := r.blockColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert availability blocks failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoAvailabilityRepo) DeleteBlocksByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.blockColl.DeleteMany(ctx, bson.M{"bookingId": bookingID}); err != nil {
		return fmt.Errorf("failed to delete blocks for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) CreateHolds(ctx context.Context, holds []models.ReservationHold) error {
	if len(holds) == 0 {
		return nil
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	docs := make([]interface{}, 0, len(holds))
	for i := range holds {
		docs = append(docs, holds[i])
	}
	if _, err := r.holdColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert reservation holds failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoAvailabilityRepo) DeleteHoldsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.holdColl.DeleteMany(ctx, bson.M{"bookingId": bookingID}); err != nil {
		return fmt.Errorf("failed to delete holds for booking %s: %w", bookingID, err)
	}
	return nil
}
