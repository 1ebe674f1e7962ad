package mongostore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/fastygo/tracker/repository/docstore"
)

func TestToBSON(t *testing.T) {
	got := toBSON(docstore.ByID("a1").And("slug", "intro").WithVersion(2))

	want := bson.D{
		{Key: "_id", Value: "a1"},
		{Key: "slug", Value: "intro"},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "version", Value: 2}},
			bson.D{{Key: "version", Value: bson.D{{Key: "$exists", Value: false}}}},
		}},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, bson.D{}, toBSON(docstore.All()))
}

type doc struct {
	ID      string `bson:"_id"`
	Version int    `bson:"version"`
	Title   string `bson:"title"`
}

func newTestCollection(t *testing.T) docstore.Collection {
	t.Helper()

	uri := os.Getenv("TRACKER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TRACKER_TEST_MONGO_URI not set; skipping Mongo integration test")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx, nil))

	db := New(client, "tracker_test")
	coll := client.Database("tracker_test").Collection("docs_" + t.Name())
	_ = coll.Drop(ctx)
	t.Cleanup(func() {
		_ = coll.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db.Collection(coll.Name())
}

func TestCollectionVersionedReplace(t *testing.T) {
	coll := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.InsertOne(ctx, doc{ID: "a1", Title: "first"}))
	assert.ErrorIs(t, coll.InsertOne(ctx, doc{ID: "a1"}), docstore.ErrDuplicate)

	matched, err := coll.ReplaceOne(ctx, docstore.ByID("a1").WithVersion(0), doc{ID: "a1", Version: 1, Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	matched, err = coll.ReplaceOne(ctx, docstore.ByID("a1").WithVersion(0), doc{ID: "a1", Version: 1, Title: "stale"})
	require.NoError(t, err)
	assert.Zero(t, matched)

	matched, err = coll.UpdateOne(ctx, docstore.Eq("title", "second"), map[string]any{"title": "third"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	var got doc
	require.NoError(t, coll.FindOne(ctx, docstore.ByID("a1"), &got))
	assert.Equal(t, doc{ID: "a1", Version: 2, Title: "third"}, got)

	var missing doc
	assert.ErrorIs(t, coll.FindOne(ctx, docstore.ByID("zz"), &missing), docstore.ErrNoDocument)
}
