package memstore

import (
	"context"
	"testing"

	"bdcserver/query"
	"bdcserver/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAssignsIDAndCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	doc := store.Document{"title": "Why donate", "tags": []interface{}{"health"}}
	res, err := s.InsertOne(ctx, store.Blogs, doc)
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	id, ok := res.InsertedID.(primitive.ObjectID)
	require.True(t, ok)

	doc["title"] = "mutated"
	got, err := s.FindOne(ctx, store.Blogs, query.Filter{query.Eq("_id", id)})
	require.NoError(t, err)
	assert.Equal(t, "Why donate", got["title"])

	got["title"] = "mutated again"
	again, err := s.FindOne(ctx, store.Blogs, query.Filter{query.Eq("_id", id)})
	require.NoError(t, err)
	assert.Equal(t, "Why donate", again["title"])
}

func TestStore_UniqueEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.InsertOne(ctx, store.Users, store.Document{"email": "a@b.com"})
	require.NoError(t, err)
	_, err = s.InsertOne(ctx, store.Users, store.Document{"email": "a@b.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.InsertOne(ctx, store.Users, store.Document{"email": "c@d.com"})
	require.NoError(t, err)
	_, err = s.UpdateOne(ctx, store.Users, query.Filter{query.Eq("email", "c@d.com")}, store.Document{"email": "a@b.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Re-setting a document's own email is not a collision.
	res, err := s.UpdateOne(ctx, store.Users, query.Filter{query.Eq("email", "c@d.com")}, store.Document{"email": "c@d.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(0), res.ModifiedCount)
}

func TestStore_UpdateDeleteCounts(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, status := range []string{"pending", "pending", "done"} {
		_, err := s.InsertOne(ctx, store.DonationRequests, store.Document{"requestStatus": status})
		require.NoError(t, err)
	}

	n, err := s.Count(ctx, store.DonationRequests, query.Filter{query.Eq("requestStatus", "pending")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := s.EstimatedCount(ctx, store.DonationRequests)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	upd, err := s.UpdateOne(ctx, store.DonationRequests,
		query.Filter{query.Eq("requestStatus", "pending")},
		store.Document{"requestStatus": "canceled"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.ModifiedCount)

	none, err := s.UpdateOne(ctx, store.DonationRequests,
		query.Filter{query.Eq("requestStatus", "in progress")},
		store.Document{"requestStatus": "done"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), none.MatchedCount)

	del, err := s.DeleteOne(ctx, store.DonationRequests, query.Filter{query.Eq("requestStatus", "done")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)

	del, err = s.DeleteOne(ctx, store.DonationRequests, query.Filter{query.Eq("requestStatus", "done")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), del.DeletedCount)

	total, err = s.EstimatedCount(ctx, store.DonationRequests)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestStore_FindEmptyCollection(t *testing.T) {
	docs, err := New().Find(context.Background(), store.Blogs, query.Query{})
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestStore_Closed(t *testing.T) {
	s := New()
	require.NoError(t, s.Close(context.Background()))

	assert.ErrorIs(t, s.Ping(context.Background()), store.ErrClosed)
	_, err := s.Find(context.Background(), store.Users, query.Query{})
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().InsertOne(ctx, store.Users, store.Document{"email": "a@b.com"})
	assert.ErrorIs(t, err, context.Canceled)
}
