package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl      *mongo.Collection
	additionalColl   *mongo.Collection
	cancellationColl *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	repo := &MongoBookingRepo{
		bookingColl:      db.Collection("bookings"),
		additionalColl:   db.Collection("additional_items"),
		cancellationColl: db.Collection("booking_cancellations"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	if _, err := r.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("insert booking failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var booking models.Booking
	if err := r.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, repository.Translate(err))
	}
	return &booking, nil
}

func (r *MongoBookingRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	n, err := r.bookingColl.CountDocuments(ctx, bson.M{"orderNumber": orderNumber}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check order number: %w", err)
	}
	return n > 0, nil
}

func (r *MongoBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Customer != "" {
		query["customer"] = filter.Customer
	}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, id string, fields bson.M) (*models.Booking, error) {
	return r.findOneAndSet(ctx, bson.M{"id": id}, fields)
}

func (r *MongoBookingRepo) TransitionStatus(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, fields bson.M) (*models.Booking, error) {
	if fields == nil {
		fields = bson.M{}
	}
	fields["status"] = to
	return r.findOneAndSet(ctx, bson.M{"id": id, "status": bson.M{"$in": from}}, fields)
}

func (r *MongoBookingRepo) findOneAndSet(ctx context.Context, filter, fields bson.M) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	if err := r.bookingColl.FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", repository.Translate(err))
	}
	return &booking, nil
}

func (r *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.bookingColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("booking with id %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoBookingRepo) ListExpiredHolds(ctx context.Context, now time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":        models.StatusPending,
		"holdExpiresAt": bson.M{"$lte": now},
	}
	return r.find(ctx, filter, options.Find())
}

func (r *MongoBookingRepo) ListPaidWithoutInvoice(ctx context.Context, limit int64) ([]models.Booking, error) {
	filter := bson.M{
		"status": models.StatusPaid,
		"$or": bson.A{
			bson.M{"invoiceId": bson.M{"$exists": false}},
			bson.M{"invoiceId": ""},
		},
	}
	return r.find(ctx, filter, options.Find().SetLimit(limit))
}
