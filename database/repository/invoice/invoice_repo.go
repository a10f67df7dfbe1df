package invoiceRepo

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

// InvoiceRepository defines methods for invoice data access.
type InvoiceRepository interface {
	// Create inserts inv. A taken invoice number yields repository.ErrDuplicate.
	Create(ctx context.Context, inv *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	GetByBooking(ctx context.Context, bookingID string) (*models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
	Update(ctx context.Context, id string, fields bson.M) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// MongoInvoiceRepo implements InvoiceRepository using MongoDB.
type MongoInvoiceRepo struct {
	coll *mongo.Collection
}

func NewMongoInvoiceRepo(db *mongo.Database) *MongoInvoiceRepo {
	repo := &MongoInvoiceRepo{coll: db.Collection("invoices")}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create invoice indexes: %v\n", err)
	}
	return repo
}

// EnsureIndexes creates the necessary indexes on the invoices collection.
func (r *MongoInvoiceRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "invoiceNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_invoice_number"),
		},
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetName("booking_idx"),
		},
		{
			Keys:    bson.D{{Key: "invoiceTo", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("recipient_status_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create invoice indexes: %w", err)
	}
	return nil
}

func (r *MongoInvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("insert invoice failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoInvoiceRepo) findOne(ctx context.Context, filter bson.M) (*models.Invoice, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var inv models.Invoice
	if err := r.coll.FindOne(ctx, filter).Decode(&inv); err != nil {
		return nil, repository.Translate(err)
	}
	return &inv, nil
}

func (r *MongoInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice with id %s: %w", id, err)
	}
	return inv, nil
}

func (r *MongoInvoiceRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Invoice, error) {
	inv, err := r.findOne(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice for booking %s: %w", bookingID, err)
	}
	return inv, nil
}

func (r *MongoInvoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.InvoiceTo != "" {
		query["invoiceTo"] = filter.InvoiceTo
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createDate", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	invoices := []models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

func (r *MongoInvoiceRepo) Update(ctx context.Context, id string, fields bson.M) (*models.Invoice, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inv models.Invoice
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice with id %s: %w", id, repository.Translate(err))
	}
	return &inv, nil
}

func (r *MongoInvoiceRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete invoice with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("invoice with id %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
