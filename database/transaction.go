package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ErrWriteConflict is returned when a concurrent transaction touched the same documents.
var ErrWriteConflict = errors.New("transaction write conflict")

const writeConflictCode = 112

// TxRunner runs fn inside a single multi-document transaction. Repositories
// called with the ctx handed to fn join that transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxRunner implements TxRunner with explicit start/commit/abort. It does
// not retry: a conflicting transaction surfaces as ErrWriteConflict.
type MongoTxRunner struct {
	client *mongo.Client
}

func NewMongoTxRunner(client *mongo.Client) *MongoTxRunner {
	return &MongoTxRunner{client: client}
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(txnOpts); err != nil {
			return fmt.Errorf("could not start transaction: %w", err)
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(context.Background())
			if IsWriteConflict(err) {
				return fmt.Errorf("%w: %v", ErrWriteConflict, err)
			}
			return err
		}
		if err := sc.CommitTransaction(sc); err != nil {
			if IsWriteConflict(err) {
				return fmt.Errorf("%w: %v", ErrWriteConflict, err)
			}
			return fmt.Errorf("commit failed: %w", err)
		}
		return nil
	})
}

// IsWriteConflict reports whether err is a transient transaction conflict.
func IsWriteConflict(err error) bool {
	if errors.Is(err, ErrWriteConflict) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(writeConflictCode) || se.HasErrorLabel("TransientTransactionError")
	}
	return false
}
