package inquiryRepo

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

// InquiryRepository defines methods for support-thread data access.
type InquiryRepository interface {
	Create(ctx context.Context, inq *models.Inquiry) error
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error)
	AppendMessage(ctx context.Context, id string, msg models.InquiryMessage) (*models.Inquiry, error)
	// UpdateStatus sets the status and logs entry to the communication history.
	UpdateStatus(ctx context.Context, id, status string, entry models.CommunicationEntry) (*models.Inquiry, error)
	AppendCommunication(ctx context.Context, id string, entry models.CommunicationEntry) (*models.Inquiry, error)
	Delete(ctx context.Context, id string) error
}

// MongoInquiryRepo implements InquiryRepository using MongoDB.
type MongoInquiryRepo struct {
	coll *mongo.Collection
}

func NewMongoInquiryRepo(db *mongo.Database) *MongoInquiryRepo {
	repo := &MongoInquiryRepo{coll: db.Collection("inquiries")}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create inquiry indexes: %v\n", err)
	}
	return repo
}

func (r *MongoInquiryRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "customer", Value: 1}, {Key: "inquiryStatus", Value: 1}},
			Options: options.Index().SetName("customer_status_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create inquiry indexes: %w", err)
	}
	return nil
}

func (r *MongoInquiryRepo) Create(ctx context.Context, inq *models.Inquiry) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	inq.CreatedAt = now
	inq.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, inq); err != nil {
		return fmt.Errorf("insert inquiry failed: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoInquiryRepo) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var inq models.Inquiry
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&inq); err != nil {
		return nil, fmt.Errorf("failed to fetch inquiry with id %s: %w", id, repository.Translate(err))
	}
	return &inq, nil
}

func (r *MongoInquiryRepo) List(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.Customer != "" {
		query["customer"] = filter.Customer
	}
	if filter.Status != "" {
		query["inquiryStatus"] = filter.Status
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}
	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("failed to decode inquiries: %w", err)
	}
	return inquiries, nil
}

func (r *MongoInquiryRepo) apply(ctx context.Context, id string, update bson.M) (*models.Inquiry, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var inq models.Inquiry
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&inq); err != nil {
		return nil, fmt.Errorf("failed to update inquiry with id %s: %w", id, repository.Translate(err))
	}
	return &inq, nil
}

func (r *MongoInquiryRepo) AppendMessage(ctx context.Context, id string, msg models.InquiryMessage) (*models.Inquiry, error) {
	return r.apply(ctx, id, bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoInquiryRepo) UpdateStatus(ctx context.Context, id, status string, entry models.CommunicationEntry) (*models.Inquiry, error) {
	return r.apply(ctx, id, bson.M{
		"$push": bson.M{"communicationHistory": entry},
		"$set":  bson.M{"inquiryStatus": status, "updatedAt": time.Now()},
	})
}

func (r *MongoInquiryRepo) AppendCommunication(ctx context.Context, id string, entry models.CommunicationEntry) (*models.Inquiry, error) {
	return r.apply(ctx, id, bson.M{
		"$push": bson.M{"communicationHistory": entry},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoInquiryRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete inquiry with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("inquiry with id %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
