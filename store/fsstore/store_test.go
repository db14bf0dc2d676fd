package fsstore

import (
	"context"
	"os"
	"testing"
	"time"

	"bdcserver/query"
	"bdcserver/store"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestDocID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), docID(oid))
	assert.Equal(t, "abc", docID("abc"))
	assert.Equal(t, "42", docID(42))
}

func TestWithoutID(t *testing.T) {
	in := store.Document{"_id": primitive.NewObjectID(), "title": "Donate"}
	out := withoutID(in)

	assert.Equal(t, store.Document{"title": "Donate"}, out)
	assert.Contains(t, in, "_id", "input must keep its id")
}

func TestUpdates(t *testing.T) {
	got := updates(store.Document{
		"_id":    primitive.NewObjectID(),
		"avatar": map[string]interface{}{"url": "x"},
		"a.b":    1,
	})
	assert.Equal(t, []firestore.Update{
		{FieldPath: firestore.FieldPath{"a.b"}, Value: 1},
		{FieldPath: firestore.FieldPath{"avatar"}, Value: map[string]interface{}{"url": "x"}},
	}, got)
}

// testStore connects to the emulator at FIRESTORE_EMULATOR_HOST. Every test
// gets its own project id, so data never leaks between tests.
func testStore(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "bdc-test-"+primitive.NewObjectID().Hex())
	if err != nil {
		t.Skipf("Firestore emulator not available: %v", err)
	}

	s := New(client, 5*time.Second, zap.NewNop())
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStore_FindPagedWithFilters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, d := range []store.Document{
		{"email": "one@bdc.org", "district": "Dhaka", "blood": "A+"},
		{"email": "two@bdc.org", "district": "Dhaka", "blood": "O-"},
		{"email": "three@bdc.org", "district": "Khulna", "blood": "A+"},
		{"email": "four@bdc.org", "district": "Dhaka", "blood": "AB+"},
	} {
		_, err := s.InsertOne(ctx, store.Users, d)
		require.NoError(t, err)
	}

	dhakaA := query.And(query.Eq("district", "Dhaka"), query.Contains("blood", "a"))
	all, err := s.Find(ctx, store.Users, query.Query{Filter: dhakaA})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "one@bdc.org", all[0]["email"])
	assert.Equal(t, "four@bdc.org", all[1]["email"])

	page, err := s.Find(ctx, store.Users, query.Query{Filter: dhakaA, Page: &query.Page{Size: 1, Index: 1}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "four@bdc.org", page[0]["email"])

	n, err := s.Count(ctx, store.Users, query.Filter{query.Eq("district", "Dhaka")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	total, err := s.EstimatedCount(ctx, store.Users)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	none, err := s.Find(ctx, store.Users, query.Query{Filter: query.And(query.Contains("email", "o."))})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStore_UniqueEmail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.InsertOne(ctx, store.Users, store.Document{"email": "a@bdc.org"})
	require.NoError(t, err)
	_, err = s.InsertOne(ctx, store.Users, store.Document{"email": "a@bdc.org"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.InsertOne(ctx, store.Users, store.Document{"email": "b@bdc.org", "name": "B"})
	require.NoError(t, err)
	_, err = s.UpdateOne(ctx, store.Users, query.Filter{query.Eq("email", "b@bdc.org")}, store.Document{"email": "a@bdc.org"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	res, err := s.UpdateOne(ctx, store.Users, query.Filter{query.Eq("email", "b@bdc.org")},
		store.Document{"email": "b@bdc.org", "name": "Bee"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)
}

func TestStore_UpdateDeleteCounts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ins, err := s.InsertOne(ctx, store.Users, store.Document{
		"email":  "a@bdc.org",
		"avatar": map[string]interface{}{"url": "old", "size": int64(64)},
	})
	require.NoError(t, err)
	byID := query.Filter{query.Eq("_id", ins.InsertedID)}

	res, err := s.UpdateOne(ctx, store.Users, byID, store.Document{"email": "a@bdc.org"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(0), res.ModifiedCount)

	res, err = s.UpdateOne(ctx, store.Users, byID, store.Document{"avatar": map[string]interface{}{"url": "new"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	doc, err := s.FindOne(ctx, store.Users, byID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, ins.InsertedID, doc["_id"])
	assert.Equal(t, map[string]interface{}{"url": "new"}, doc["avatar"])

	missing := query.Filter{query.Eq("_id", primitive.NewObjectID())}
	res, err = s.UpdateOne(ctx, store.Users, missing, store.Document{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.MatchedCount)

	del, err := s.DeleteOne(ctx, store.Users, byID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)
	del, err = s.DeleteOne(ctx, store.Users, byID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), del.DeletedCount)

	gone, err := s.FindOne(ctx, store.Users, byID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
