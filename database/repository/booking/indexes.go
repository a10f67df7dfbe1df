package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes for bookings, add-ons and cancellations.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Order numbers are generated randomly; the index makes a collision fail loudly.
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_order_number"),
		},
		{
			Keys:    bson.D{{Key: "customer", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("customer_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "holdExpiresAt", Value: 1}},
			Options: options.Index().SetName("status_hold_expiry_idx"),
		},
	}
	if _, err := r.bookingColl.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	additionalIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "booking", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_booking"),
		},
	}
	if _, err := r.additionalColl.Indexes().CreateMany(ctx, additionalIndexes); err != nil {
		return fmt.Errorf("failed to create additional item indexes: %w", err)
	}

	cancellationIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "booking", Value: 1}},
			Options: options.Index().SetName("booking_idx"),
		},
	}
	if _, err := r.cancellationColl.Indexes().CreateMany(ctx, cancellationIndexes); err != nil {
		return fmt.Errorf("failed to create cancellation indexes: %w", err)
	}
	return nil
}
