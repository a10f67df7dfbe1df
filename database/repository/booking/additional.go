package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *MongoBookingRepo) SaveAdditionalItems(ctx context.Context, items *models.AdditionalItems) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if items.CreatedAt.IsZero() {
		items.CreatedAt = time.Now()
	}
	if _, err := r.additionalColl.InsertOne(ctx, items); err != nil {
		return fmt.Errorf("insert additional items failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoBookingRepo) GetAdditionalItems(ctx context.Context, id string) (*models.AdditionalItems, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var items models.AdditionalItems
	if err := r.additionalColl.FindOne(ctx, bson.M{"id": id}).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to fetch additional items %s: %w", id, repository.Translate(err))
	}
	return &items, nil
}

func (r *MongoBookingRepo) ListAdditionalItems(ctx context.Context, ids []string) ([]models.AdditionalItems, error) {
	if len(ids) == 0 {
		return []models.AdditionalItems{}, nil
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	cursor, err := r.additionalColl.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to list additional items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.AdditionalItems{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode additional items: %w", err)
	}
	return items, nil
}

func (r *MongoBookingRepo) DeleteAdditionalItemsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.additionalColl.DeleteMany(ctx, bson.M{"booking": bookingID}); err != nil {
		return fmt.Errorf("failed to delete additional items for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *MongoBookingRepo) SaveCancellation(ctx context.Context, c *models.BookingCancellation) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.cancellationColl.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert booking cancellation failed: %w", repository.Translate(err))
	}
	return nil
}
