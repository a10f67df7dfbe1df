package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes for blocks and holds.
func (r *MongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blockIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern of the overlap check.
		{
			Keys:    bson.D{{Key: "serviceId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index().SetName("service_start_end_idx"),
		},
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetName("booking_idx"),
		},
	}
	if _, err := r.blockColl.Indexes().CreateMany(ctx, blockIndexes); err != nil {
		return fmt.Errorf("failed to create block indexes: %w", err)
	}

	holdIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "serviceId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}, {Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("service_start_end_expiry_idx"),
		},
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetName("booking_idx"),
		},
	}
	if _, err := r.holdColl.Indexes().CreateMany(ctx, holdIndexes); err != nil {
		return fmt.Errorf("failed to create hold indexes: %w", err)
	}
	return nil
}
