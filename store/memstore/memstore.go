// Package memstore is an in-process store.Store used by tests and by
// STORE_DRIVER=memory for local runs. Documents are deep-copied on the way in
// and out so callers never share maps with the store.
package memstore

import (
	"context"
	"reflect"
	"sync"

	"bdcserver/query"
	"bdcserver/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps every collection as an insertion-ordered slice.
type Store struct {
	mu     sync.RWMutex
	cols   map[store.Collection][]store.Document
	closed bool
}

// New returns an empty store.
func New() *Store {
	return &Store{cols: make(map[store.Collection][]store.Document)}
}

var _ store.Store = (*Store)(nil)

func (s *Store) FindOne(ctx context.Context, col store.Collection, filter query.Filter) (store.Document, error) {
	docs, err := s.Find(ctx, col, query.Query{Filter: filter, Page: &query.Page{Size: 1}})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (s *Store) Find(ctx context.Context, col store.Collection, q query.Query) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	matched := query.Apply(s.cols[col], q)
	out := make([]store.Document, len(matched))
	for i, d := range matched {
		out[i] = cloneDoc(d)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, col store.Collection, filter query.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	var n int64
	for _, d := range s.cols[col] {
		if filter.Match(d) {
			n++
		}
	}
	return n, nil
}

func (s *Store) EstimatedCount(ctx context.Context, col store.Collection) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	return int64(len(s.cols[col])), nil
}

func (s *Store) InsertOne(ctx context.Context, col store.Collection, doc store.Document) (*store.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	d := cloneDoc(doc)
	if _, ok := d["_id"]; !ok {
		d["_id"] = primitive.NewObjectID()
	}
	if s.firstMatch(col, query.Filter{query.Eq("_id", d["_id"])}) >= 0 {
		return nil, store.ErrDuplicate
	}
	if s.violatesUnique(col, d, nil) {
		return nil, store.ErrDuplicate
	}

	s.cols[col] = append(s.cols[col], d)
	return &store.InsertResult{Acknowledged: true, InsertedID: d["_id"]}, nil
}

func (s *Store) UpdateOne(ctx context.Context, col store.Collection, filter query.Filter, set store.Document) (*store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	res := &store.UpdateResult{Acknowledged: true}
	idx := s.firstMatch(col, filter)
	if idx < 0 {
		return res, nil
	}
	res.MatchedCount = 1

	target := s.cols[col][idx]
	next := cloneDoc(target)
	for k, v := range set {
		next[k] = cloneValue(v)
	}
	if s.violatesUnique(col, next, target) {
		return nil, store.ErrDuplicate
	}
	if !reflect.DeepEqual(next, target) {
		res.ModifiedCount = 1
		s.cols[col][idx] = next
	}
	return res, nil
}

func (s *Store) DeleteOne(ctx context.Context, col store.Collection, filter query.Filter) (*store.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	res := &store.DeleteResult{Acknowledged: true}
	idx := s.firstMatch(col, filter)
	if idx < 0 {
		return res, nil
	}
	docs := s.cols[col]
	s.cols[col] = append(docs[:idx:idx], docs[idx+1:]...)
	res.DeletedCount = 1
	return res, nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check(ctx)
}

func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if s.closed {
		return store.ErrClosed
	}
	return ctx.Err()
}

// firstMatch returns the index of the first match in _id order, or -1.
func (s *Store) firstMatch(col store.Collection, filter query.Filter) int {
	best := -1
	for i, d := range s.cols[col] {
		if !filter.Match(d) {
			continue
		}
		if best < 0 || query.Compare(d["_id"], s.cols[col][best]["_id"]) < 0 {
			best = i
		}
	}
	return best
}

// violatesUnique reports whether d collides with another document on a
// unique key. self is the document being replaced, if any.
func (s *Store) violatesUnique(col store.Collection, d, self store.Document) bool {
	for _, field := range store.UniqueKeys[col] {
		v, ok := d[field]
		if !ok {
			continue
		}
		same := query.Filter{query.Eq(field, v)}
		for _, other := range s.cols[col] {
			if self != nil && other["_id"] == self["_id"] {
				continue
			}
			if same.Match(other) {
				return true
			}
		}
	}
	return false
}

func cloneDoc(d map[string]interface{}) store.Document {
	out := make(store.Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return map[string]interface{}(cloneDoc(t))
	case bson.M:
		return cloneDoc(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case bson.A:
		out := make(bson.A, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
