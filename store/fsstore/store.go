// Package fsstore implements store.Store on Cloud Firestore.
//
// Firestore has no server-side substring matching, so equality conditions are
// pushed into the Firestore query and the remaining evaluation (substring
// match, ordering, skip/limit) runs in memory through query.Apply. Document
// ids are ObjectID hex strings so ids stay interchangeable with MongoDB.
package fsstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"bdcserver/query"
	"bdcserver/store"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is a Firestore-backed store.Store.
type Store struct {
	client  *firestore.Client
	timeout time.Duration
	log     *zap.Logger
}

var _ store.Store = (*Store)(nil)

// New wraps an initialised Firestore client.
func New(client *firestore.Client, opTimeout time.Duration, log *zap.Logger) *Store {
	return &Store{client: client, timeout: opTimeout, log: log}
}

func (s *Store) FindOne(ctx context.Context, col store.Collection, filter query.Filter) (store.Document, error) {
	docs, err := s.Find(ctx, col, query.Query{Filter: filter, Page: &query.Page{Size: 1}})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (s *Store) Find(ctx context.Context, col store.Collection, q query.Query) ([]store.Document, error) {
	opCtx, cancel := store.WithOperationTimeout(ctx, s.timeout)
	defer cancel()

	docs, err := s.fetch(opCtx, col, q.Filter)
	if err != nil {
		return nil, err
	}
	return query.Apply(docs, q), nil
}

func (s *Store) Count(ctx context.Context, col store.Collection, filter query.Filter) (int64, error) {
	opCtx, cancel := store.WithOperationTimeout(ctx, s.timeout)
	defer cancel()

	docs, err := s.fetch(opCtx, col, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(query.Apply(docs, query.Query{Filter: filter}))), nil
}

func (s *Store) EstimatedCount(ctx context.Context, col store.Collection) (int64, error) {
	return s.Count(ctx, col, nil)
}

func (s *Store) InsertOne(ctx context.Context, col store.Collection, doc store.Document) (*store.InsertResult, error) {
	opCtx, cancel := store.WithOperationTimeout(ctx, s.timeout)
	defer cancel()

	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
	}
	if err := s.checkUnique(opCtx, col, doc, ""); err != nil {
		return nil, err
	}

	_, err := s.client.Collection(string(col)).Doc(id.Hex()).Create(opCtx, withoutID(doc))
	if status.Code(err) == codes.AlreadyExists {
		return nil, store.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("fsstore: create in %s: %w", col, err)
	}
	return &store.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *Store) UpdateOne(ctx context.Context, col store.Collection, filter query.Filter, set store.Document) (*store.UpdateResult, error) {
	opCtx, cancel := store.WithOperationTimeout(ctx, s.timeout)
	defer cancel()

	res := &store.UpdateResult{Acknowledged: true}
	target, ref, err := s.first(opCtx, col, filter)
	if err != nil || target == nil {
		return res, err
	}
	res.MatchedCount = 1

	changed := false
	for k, v := range set {
		if !reflect.DeepEqual(target[k], v) {
			changed = true
			break
		}
	}
	if !changed {
		return res, nil
	}
	if err := s.checkUnique(opCtx, col, set, ref.ID); err != nil {
		return nil, err
	}

	upd := updates(set)
	if len(upd) == 0 {
		return res, nil
	}
	if _, err := ref.Update(opCtx, upd); err != nil {
		return nil, fmt.Errorf("fsstore: update %s/%s: %w", col, ref.ID, err)
	}
	res.ModifiedCount = 1
	return res, nil
}

func (s *Store) DeleteOne(ctx context.Context, col store.Collection, filter query.Filter) (*store.DeleteResult, error) {
	opCtx, cancel := store.WithOperationTimeout(ctx, s.timeout)
	defer cancel()

	res := &store.DeleteResult{Acknowledged: true}
	target, ref, err := s.first(opCtx, col, filter)
	if err != nil || target == nil {
		return res, err
	}
	if _, err := ref.Delete(opCtx); err != nil {
		return nil, fmt.Errorf("fsstore: delete %s/%s: %w", col, ref.ID, err)
	}
	res.DeletedCount = 1
	return res, nil
}

func (s *Store) Ping(ctx context.Context) error {
	opCtx, cancel := store.WithOperationTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.Collection(string(store.Users)).Limit(1).Documents(opCtx).GetAll()
	return err
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

// first returns the first match in _id order together with its reference.
func (s *Store) first(ctx context.Context, col store.Collection, filter query.Filter) (store.Document, *firestore.DocumentRef, error) {
	docs, err := s.fetch(ctx, col, filter)
	if err != nil {
		return nil, nil, err
	}
	matched := query.Apply(docs, query.Query{Filter: filter, Page: &query.Page{Size: 1}})
	if len(matched) == 0 {
		return nil, nil, nil
	}
	return matched[0], s.client.Collection(string(col)).Doc(docID(matched[0]["_id"])), nil
}

// fetch loads candidates for filter. An _id equality is served by a direct
// document read; other equality conditions become Where clauses.
func (s *Store) fetch(ctx context.Context, col store.Collection, filter query.Filter) ([]store.Document, error) {
	ref := s.client.Collection(string(col))

	for _, c := range filter {
		if c.Op == query.OpEq && c.Field == query.IDField {
			snap, err := ref.Doc(docID(c.Value)).Get(ctx)
			if status.Code(err) == codes.NotFound {
				return []store.Document{}, nil
			}
			if err != nil {
				return nil, fmt.Errorf("fsstore: get %s: %w", col, err)
			}
			return []store.Document{toDocument(snap)}, nil
		}
	}

	q := ref.Query
	for _, c := range filter {
		if c.Op == query.OpEq {
			q = q.Where(c.Field, "==", c.Value)
		}
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	docs := []store.Document{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fsstore: query %s: %w", col, err)
		}
		docs = append(docs, toDocument(snap))
	}
	return docs, nil
}

// checkUnique rejects doc if another document (other than selfID) already
// holds one of its unique values. The check and the write are not atomic.
func (s *Store) checkUnique(ctx context.Context, col store.Collection, doc store.Document, selfID string) error {
	for _, field := range store.UniqueKeys[col] {
		v, ok := doc[field]
		if !ok {
			continue
		}
		snaps, err := s.client.Collection(string(col)).Where(field, "==", v).Limit(2).Documents(ctx).GetAll()
		if err != nil {
			return fmt.Errorf("fsstore: unique check on %s.%s: %w", col, field, err)
		}
		for _, snap := range snaps {
			if snap.Ref.ID != selfID {
				return store.ErrDuplicate
			}
		}
	}
	return nil
}

func toDocument(snap *firestore.DocumentSnapshot) store.Document {
	doc := store.Document(snap.Data())
	if doc == nil {
		doc = store.Document{}
	}
	if oid, err := primitive.ObjectIDFromHex(snap.Ref.ID); err == nil {
		doc["_id"] = oid
	} else {
		doc["_id"] = snap.Ref.ID
	}
	return doc
}

func docID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return fmt.Sprint(v)
}

// updates replaces each top-level field whole, the way $set does. Nested
// maps are not merged key by key.
func updates(set store.Document) []firestore.Update {
	out := make([]firestore.Update, 0, len(set))
	for k, v := range set {
		if k == query.IDField {
			continue
		}
		out = append(out, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldPath[0] < out[j].FieldPath[0] })
	return out
}

func withoutID(doc store.Document) store.Document {
	out := make(store.Document, len(doc))
	for k, v := range doc {
		if k == query.IDField {
			continue
		}
		out[k] = v
	}
	return out
}
