// Package store defines the document store adapter used by every handler.
//
// Implementations live in sub-packages: mongostore (MongoDB, the default),
// fsstore (Cloud Firestore) and memstore (in-process, for tests and local runs).
// Each call runs exactly once; adapters translate driver errors into the
// sentinels below and never retry.
package store

import (
	"context"
	"errors"
	"time"

	"bdcserver/query"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is a schema-less stored record.
type Document = bson.M

// Collection names a document collection.
type Collection string

const (
	Users            Collection = "Users"
	DonationRequests Collection = "DonationRequests"
	Blogs            Collection = "Blogs"
)

// UniqueKeys lists fields that must be unique within a collection.
var UniqueKeys = map[Collection][]string{
	Users: {"email"},
}

var (
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrClosed is returned by adapters after Close.
	ErrClosed = errors.New("store: closed")
)

// InsertResult mirrors the MongoDB driver's insertOne result.
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateResult mirrors the MongoDB driver's updateOne result.
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult mirrors the MongoDB driver's deleteOne result.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Store is the document store adapter.
type Store interface {
	// FindOne returns the first document matching filter in _id order, or
	// (nil, nil) when none matches.
	FindOne(ctx context.Context, col Collection, filter query.Filter) (Document, error)
	// Find returns the documents selected by q. The result is never nil.
	Find(ctx context.Context, col Collection, q query.Query) ([]Document, error)
	Count(ctx context.Context, col Collection, filter query.Filter) (int64, error)
	EstimatedCount(ctx context.Context, col Collection) (int64, error)
	// InsertOne stores doc, assigning an ObjectID _id when absent.
	InsertOne(ctx context.Context, col Collection, doc Document) (*InsertResult, error)
	// UpdateOne applies set ($set semantics) to the first document matching filter.
	UpdateOne(ctx context.Context, col Collection, filter query.Filter, set Document) (*UpdateResult, error)
	DeleteOne(ctx context.Context, col Collection, filter query.Filter) (*DeleteResult, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// WithOperationTimeout bounds ctx by d unless the caller already set a deadline.
func WithOperationTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
