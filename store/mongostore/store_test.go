package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"bdcserver/query"
	"bdcserver/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestToBSON(t *testing.T) {
	assert.Equal(t, bson.D{}, toBSON(nil))

	assert.Equal(t,
		bson.D{{Key: "email", Value: "a@b.com"}},
		toBSON(query.Filter{query.Eq("email", "a@b.com")}))

	got := toBSON(query.And(
		query.Contains("title", "a+b"),
		query.Eq("blogStatus", "published"),
	))
	want := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "title", Value: bson.D{{Key: "$regex", Value: primitive.Regex{Pattern: `a\+b`, Options: "i"}}}}},
		bson.D{{Key: "blogStatus", Value: "published"}},
	}}}
	assert.Equal(t, want, got)
}

func TestSortDoc(t *testing.T) {
	got := sortDoc(query.Query{Sort: []query.SortField{{Field: "postTime", Desc: true}}}.Ordered())
	assert.Equal(t, bson.D{{Key: "postTime", Value: -1}, {Key: "_id", Value: 1}}, got)
}

// testStore connects to MONGO_TEST_URI and uses a throwaway database.
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	s, err := NewStore(Config{
		URI:              uri,
		Database:         "bdc_test",
		ConnectTimeout:   5 * time.Second,
		OperationTimeout: 5 * time.Second,
	}, zap.NewNop())
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	ctx := context.Background()
	require.NoError(t, s.db.Drop(ctx))
	require.NoError(t, s.ensureIndexes(ctx))

	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s
}

func TestStore_CRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ins, err := s.InsertOne(ctx, store.Users, store.Document{"email": "a@b.com", "role": "admin"})
	require.NoError(t, err)
	id, ok := ins.InsertedID.(primitive.ObjectID)
	require.True(t, ok)

	_, err = s.InsertOne(ctx, store.Users, store.Document{"email": "a@b.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	doc, err := s.FindOne(ctx, store.Users, query.Filter{query.Eq("_id", id)})
	require.NoError(t, err)
	assert.Equal(t, "admin", doc["role"])

	upd, err := s.UpdateOne(ctx, store.Users, query.Filter{query.Eq("_id", id)}, store.Document{"role": "donor"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.MatchedCount)
	assert.Equal(t, int64(1), upd.ModifiedCount)

	found, err := s.Find(ctx, store.Users, query.Query{Filter: query.And(query.Contains("email", "A@B"))})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	del, err := s.DeleteOne(ctx, store.Users, query.Filter{query.Eq("_id", id)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)

	missing, err := s.FindOne(ctx, store.Users, query.Filter{query.Eq("_id", id)})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ClosedRejectsOperations(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Close(context.Background()))
	assert.NoError(t, s.Close(context.Background()))

	_, err := s.Count(context.Background(), store.Users, nil)
	assert.ErrorIs(t, err, store.ErrClosed)
}
