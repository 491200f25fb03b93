package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gameassets/backend/internal/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// documentRepository holds the collection operations shared by every resource.
// T is the type documents are decoded into.
type documentRepository[T any] struct {
	coll     *mongo.Collection
	resource string
	timeout  time.Duration
	logger   *zap.Logger
}

func newDocumentRepository[T any](coll *mongo.Collection, resource string, timeout time.Duration, logger *zap.Logger) *documentRepository[T] {
	return &documentRepository[T]{
		coll:     coll,
		resource: resource,
		timeout:  timeout,
		logger:   logger,
	}
}

// withDeadline bounds a single store round trip
func (r *documentRepository[T]) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// storeError converts a driver error into an apperr kind.
// The message names the driver operation only; callers add what they were doing.
func (r *documentRepository[T]) storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		r.logger.Warn("database operation timed out",
			zap.String("collection", r.coll.Name()),
			zap.String("operation", op),
			zap.Error(err),
		)
		return apperr.Timeout("database operation timed out", err)
	}
	r.logger.Error("database operation failed",
		zap.String("collection", r.coll.Name()),
		zap.String("operation", op),
		zap.Error(err),
	)
	return apperr.Internal(fmt.Sprintf("mongodb %s on %s", op, r.coll.Name()), err)
}

func (r *documentRepository[T]) notFound() error {
	return apperr.NotFound(r.resource + " not found")
}

// Insert stores a new document and returns the id assigned to it
func (r *documentRepository[T]) Insert(ctx context.Context, doc map[string]any) (primitive.ObjectID, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, r.storeError("insertOne", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, apperr.Internal(
			fmt.Sprintf("mongodb insertOne on %s", r.coll.Name()),
			fmt.Errorf("unexpected inserted id type %T", result.InsertedID),
		)
	}

	return id, nil
}

// FindByID retrieves one document. A nil projection returns every field.
func (r *documentRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID, projection bson.M) (*T, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc T
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.notFound()
		}
		return nil, r.storeError("findOne", err)
	}

	return &doc, nil
}

// Exists reports whether a document with the id is stored
func (r *documentRepository[T]) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	err := r.coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, r.storeError("findOne", err)
	}

	return true, nil
}

// Find returns every document matching filter, never nil
func (r *documentRepository[T]) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.storeError("find", err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, r.storeError("find", err)
	}
	if docs == nil {
		docs = make([]T, 0)
	}

	return docs, nil
}

// UpdateByID replaces the given fields of one document.
// It returns true when at least one field changed and a not-found error when no document matched.
func (r *documentRepository[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]any) (bool, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, r.storeError("updateOne", err)
	}
	if result.MatchedCount == 0 {
		return false, r.notFound()
	}

	return result.ModifiedCount > 0, nil
}

// DeleteByID removes one document, failing with not-found unless exactly one was removed
func (r *documentRepository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.storeError("deleteOne", err)
	}
	if result.DeletedCount != 1 {
		return r.notFound()
	}

	return nil
}

// containsFilter builds a case-insensitive substring match on field.
// An empty value matches every document.
func containsFilter(field, value string) bson.M {
	if value == "" {
		return bson.M{}
	}
	return bson.M{field: primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}}
}
