package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tracker/repository/docstore"
)

type note struct {
	ID      string   `json:"id"`
	Version *int     `json:"version,omitempty"`
	Title   string   `json:"title"`
	Owner   owner    `json:"owner"`
	Tags    []string `json:"tags"`
	Flagged bool     `json:"flagged"`
}

type owner struct {
	ID string `json:"id"`
}

func intPtr(v int) *int { return &v }

func seed(t *testing.T) docstore.Collection {
	t.Helper()
	ctx := context.Background()
	coll := New().Collection("notes")
	require.NoError(t, coll.InsertOne(ctx, note{ID: "n1", Version: intPtr(0), Title: "first", Owner: owner{ID: "u1"}, Tags: []string{"a", "b"}}))
	require.NoError(t, coll.InsertOne(ctx, note{ID: "n2", Version: intPtr(2), Title: "second", Owner: owner{ID: "u2"}, Flagged: true}))
	require.NoError(t, coll.InsertOne(ctx, note{ID: "legacy", Title: "no version", Owner: owner{ID: "u1"}}))
	return coll
}

func TestCollectionFind(t *testing.T) {
	ctx := context.Background()
	coll := seed(t)

	tests := []struct {
		name   string
		filter docstore.Filter
		want   []string
	}{
		{name: "all", filter: docstore.All(), want: []string{"n1", "n2", "legacy"}},
		{name: "nested path", filter: docstore.Eq("owner.id", "u1"), want: []string{"n1", "legacy"}},
		{name: "bool", filter: docstore.Eq("flagged", true), want: []string{"n2"}},
		{name: "array contains", filter: docstore.Eq("tags", "b"), want: []string{"n1"}},
		{name: "conjunction", filter: docstore.Eq("owner.id", "u1").And("title", "first"), want: []string{"n1"}},
		{name: "no match", filter: docstore.Eq("title", "missing"), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []note
			require.NoError(t, coll.Find(ctx, tt.filter, &got))
			ids := make([]string, 0, len(got))
			for _, n := range got {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCollectionFindOne(t *testing.T) {
	ctx := context.Background()
	coll := seed(t)

	var got note
	require.NoError(t, coll.FindOne(ctx, docstore.ByID("n2"), &got))
	assert.Equal(t, "second", got.Title)

	err := coll.FindOne(ctx, docstore.ByID("nope"), &got)
	assert.True(t, errors.Is(err, docstore.ErrNoDocument))
}

func TestCollectionInsertRejectsDuplicatesAndMissingIDs(t *testing.T) {
	ctx := context.Background()
	coll := seed(t)

	assert.ErrorIs(t, coll.InsertOne(ctx, note{ID: "n1"}), docstore.ErrDuplicate)
	assert.ErrorIs(t, coll.InsertOne(ctx, note{}), docstore.ErrMissingID)
}

func TestCollectionReplaceOneHonoursVersion(t *testing.T) {
	ctx := context.Background()
	coll := seed(t)

	matched, err := coll.ReplaceOne(ctx, docstore.ByID("n2").WithVersion(1), note{ID: "n2", Version: intPtr(2), Title: "stale"})
	require.NoError(t, err)
	assert.Zero(t, matched)

	matched, err = coll.ReplaceOne(ctx, docstore.ByID("n2").WithVersion(2), note{ID: "n2", Version: intPtr(3), Title: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	matched, err = coll.ReplaceOne(ctx, docstore.ByID("legacy").WithVersion(0), note{ID: "legacy", Version: intPtr(1), Title: "versioned"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched, "documents without a version match any expected version")

	var got note
	require.NoError(t, coll.FindOne(ctx, docstore.ByID("n2"), &got))
	assert.Equal(t, "fresh", got.Title)
	assert.Equal(t, 3, *got.Version)

	_, err = coll.ReplaceOne(ctx, docstore.ByID("n1"), note{ID: "other"})
	assert.Error(t, err)
}

func TestCollectionUpdateOneIncrementsVersion(t *testing.T) {
	ctx := context.Background()
	coll := seed(t)

	matched, err := coll.UpdateOne(ctx, docstore.Eq("title", "second"), map[string]any{"flagged": false})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	var got note
	require.NoError(t, coll.FindOne(ctx, docstore.ByID("n2"), &got))
	assert.False(t, got.Flagged)
	assert.Equal(t, 3, *got.Version)

	matched, err = coll.UpdateOne(ctx, docstore.Eq("title", "missing"), map[string]any{"flagged": true})
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestCollectionHonoursCancelledContext(t *testing.T) {
	coll := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got []note
	assert.ErrorIs(t, coll.Find(ctx, docstore.All(), &got), context.Canceled)
}
