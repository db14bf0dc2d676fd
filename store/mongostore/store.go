// Package mongostore implements store.Store on MongoDB.
//
// The client is created once at startup and shared by every request; each
// operation is bounded by the configured operation timeout unless the caller
// already carries a deadline.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bdcserver/query"
	"bdcserver/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Config holds connection settings.
type Config struct {
	URI              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// Store is a MongoDB-backed store.Store.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
}

var _ store.Store = (*Store)(nil)

// NewStore connects, pings the primary and ensures indexes.
func NewStore(cfg Config, log *zap.Logger) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongostore: URI is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongostore: database is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	// Nested documents decode as maps so they serialize to JSON as objects.
	bsonOpts := &options.BSONOptions{DefaultDocumentM: true}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(bsonOpts))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	s := &Store{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: cfg.OperationTimeout,
		log:     log,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		log.Warn("mongostore: ensure indexes failed", zap.Error(err))
	}

	log.Info("MongoDB connection established", zap.String("database", cfg.Database))
	return s, nil
}

func (s *Store) col(c store.Collection) *mongo.Collection {
	return s.db.Collection(string(c))
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    store.Collection
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{store.DonationRequests, bson.D{{Key: "requesterEmail", Value: 1}, {Key: "postTime", Value: -1}}, false},
		{store.DonationRequests, bson.D{{Key: "requestStatus", Value: 1}}, false},
		{store.Blogs, bson.D{{Key: "blogStatus", Value: 1}}, false},
	}
	for c, fields := range store.UniqueKeys {
		for _, f := range fields {
			indexes = append(indexes, idx{c, bson.D{{Key: f, Value: 1}}, true})
		}
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, nil, store.ErrClosed
	}
	opCtx, cancel := store.WithOperationTimeout(ctx, s.timeout)
	return opCtx, cancel, nil
}

func (s *Store) FindOne(ctx context.Context, col store.Collection, filter query.Filter) (store.Document, error) {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var doc store.Document
	opts := options.FindOne().SetSort(sortDoc(query.Query{}.Ordered()))
	err = s.col(col).FindOne(opCtx, toBSON(filter), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err)
	}
	return doc, nil
}

func (s *Store) Find(ctx context.Context, col store.Collection, q query.Query) ([]store.Document, error) {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	opts := options.Find().SetSort(sortDoc(q.Ordered()))
	if q.Page != nil {
		opts.SetSkip(q.Page.Skip()).SetLimit(q.Page.Limit())
	}

	cursor, err := s.col(col).Find(opCtx, toBSON(q.Filter), opts)
	if err != nil {
		return nil, wrapError(err)
	}
	docs := []store.Document{}
	if err := cursor.All(opCtx, &docs); err != nil {
		return nil, wrapError(err)
	}
	return docs, nil
}

func (s *Store) Count(ctx context.Context, col store.Collection, filter query.Filter) (int64, error) {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	n, err := s.col(col).CountDocuments(opCtx, toBSON(filter))
	return n, wrapError(err)
}

func (s *Store) EstimatedCount(ctx context.Context, col store.Collection) (int64, error) {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	n, err := s.col(col).EstimatedDocumentCount(opCtx)
	return n, wrapError(err)
}

func (s *Store) InsertOne(ctx context.Context, col store.Collection, doc store.Document) (*store.InsertResult, error) {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	res, err := s.col(col).InsertOne(opCtx, doc)
	if err != nil {
		return nil, wrapError(err)
	}
	return &store.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (s *Store) UpdateOne(ctx context.Context, col store.Collection, filter query.Filter, set store.Document) (*store.UpdateResult, error) {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	res, err := s.col(col).UpdateOne(opCtx, toBSON(filter), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, wrapError(err)
	}
	return &store.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (s *Store) DeleteOne(ctx context.Context, col store.Collection, filter query.Filter) (*store.DeleteResult, error) {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	res, err := s.col(col).DeleteOne(opCtx, toBSON(filter))
	if err != nil {
		return nil, wrapError(err)
	}
	return &store.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	opCtx, cancel, err := s.opContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	return s.client.Ping(opCtx, readpref.Primary())
}

// Close disconnects the client. Calling it twice is a no-op.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongostore: disconnect: %w", err)
	}
	return nil
}
