package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID        ID        `bson:"_id" json:"_id"`
	Owner     string    `bson:"owner" json:"owner"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Tags      []string  `bson:"tags" json:"tags"`
	Score     float64   `bson:"score" json:"score"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (d *testDoc) DocumentID() ID {
	return d.ID
}

func newTestDoc(owner string) *testDoc {
	return &testDoc{
		ID:        NewID(),
		Owner:     owner,
		Name:      gofakeit.Name(),
		Tags:      []string{gofakeit.Word()},
		Score:     gofakeit.Float64Range(0, 100),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// runCollectionContract exercises the behavior every Store implementation must share.
func runCollectionContract(t *testing.T, store Store, collName string) {
	t.Helper()
	ctx := context.Background()
	coll := store.Collection(collName)

	require.NoError(t, coll.EnsureUniqueIndex(ctx, "email", true))

	t.Run("insert and find by id", func(t *testing.T) {
		d := newTestDoc("alice")
		require.NoError(t, coll.InsertOne(ctx, d))

		var found testDoc
		require.NoError(t, coll.FindOne(ctx, ByID(d.ID), &found))
		assert.Equal(t, d.ID, found.ID)
		assert.Equal(t, d.Name, found.Name)
		assert.Equal(t, d.Tags, found.Tags)
		assert.InDelta(t, d.Score, found.Score, 0.0001)
		assert.True(t, d.CreatedAt.Equal(found.CreatedAt))

		// the same id through the client facing parser
		parsed, err := ParseID(d.ID.String())
		require.NoError(t, err)
		require.NoError(t, coll.FindOne(ctx, ByID(parsed), &found))
	})

	t.Run("legacy string id", func(t *testing.T) {
		d := newTestDoc("alice")
		d.ID = StringID("legacy-" + gofakeit.UUID())
		require.NoError(t, coll.InsertOne(ctx, d))

		parsed, err := ParseID(d.ID.String())
		require.NoError(t, err)
		assert.False(t, parsed.IsObjectID())

		var found testDoc
		require.NoError(t, coll.FindOne(ctx, ByID(parsed), &found))
		assert.Equal(t, d.Name, found.Name)
	})

	t.Run("field filters and owner isolation", func(t *testing.T) {
		d := newTestDoc("bob")
		require.NoError(t, coll.InsertOne(ctx, d))

		var found testDoc
		err := coll.FindOne(ctx, ByID(d.ID).With("owner", "alice"), &found)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, coll.FindOne(ctx, ByID(d.ID).With("owner", "bob"), &found))
		assert.Equal(t, "bob", found.Owner)
	})

	t.Run("find with limit keeps insertion order", func(t *testing.T) {
		owner := "lister-" + gofakeit.UUID()
		var inserted []Document
		for i := 0; i < 5; i++ {
			inserted = append(inserted, newTestDoc(owner))
		}
		require.NoError(t, coll.InsertMany(ctx, inserted))

		var all []testDoc
		require.NoError(t, coll.Find(ctx, Filter{"owner": owner}, 0, &all))
		require.Len(t, all, 5)
		for i := range all {
			assert.Equal(t, inserted[i].DocumentID(), all[i].ID)
		}

		var limited []testDoc
		require.NoError(t, coll.Find(ctx, Filter{"owner": owner}, 3, &limited))
		assert.Len(t, limited, 3)

		none := make([]testDoc, 0)
		require.NoError(t, coll.Find(ctx, Filter{"owner": "nobody"}, 10, &none))
		assert.Empty(t, none)
	})

	t.Run("update sets only given fields", func(t *testing.T) {
		d := newTestDoc("carol")
		require.NoError(t, coll.InsertOne(ctx, d))

		matched, err := coll.UpdateOne(ctx, ByID(d.ID).With("owner", "carol"), map[string]any{
			"name": "renamed",
			"tags": []string{"a", "b"},
		})
		require.NoError(t, err)
		assert.True(t, matched)

		var found testDoc
		require.NoError(t, coll.FindOne(ctx, ByID(d.ID), &found))
		assert.Equal(t, "renamed", found.Name)
		assert.Equal(t, []string{"a", "b"}, found.Tags)
		assert.InDelta(t, d.Score, found.Score, 0.0001)

		matched, err = coll.UpdateOne(ctx, ByID(d.ID).With("owner", "mallory"), map[string]any{"name": "hacked"})
		require.NoError(t, err)
		assert.False(t, matched)

		_, err = coll.UpdateOne(ctx, ByID(d.ID), map[string]any{IDField: NewID()})
		assert.Error(t, err)
	})

	t.Run("delete one and many", func(t *testing.T) {
		owner := "deleter-" + gofakeit.UUID()
		d1, d2, d3 := newTestDoc(owner), newTestDoc(owner), newTestDoc(owner)
		require.NoError(t, coll.InsertMany(ctx, []Document{d1, d2, d3}))

		deleted, err := coll.DeleteOne(ctx, ByID(d1.ID).With("owner", owner))
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = coll.DeleteOne(ctx, ByID(d1.ID).With("owner", owner))
		require.NoError(t, err)
		assert.False(t, deleted)

		count, err := coll.DeleteMany(ctx, Filter{"owner": owner})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		var left []testDoc
		require.NoError(t, coll.Find(ctx, Filter{"owner": owner}, 0, &left))
		assert.Empty(t, left)
	})

	t.Run("unique sparse index", func(t *testing.T) {
		email := gofakeit.Email()
		d1 := newTestDoc("dave")
		d1.Email = email
		require.NoError(t, coll.InsertOne(ctx, d1))

		d2 := newTestDoc("erin")
		d2.Email = email
		err := coll.InsertOne(ctx, d2)
		assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)

		// documents without email do not collide
		require.NoError(t, coll.InsertOne(ctx, newTestDoc("frank")))
		require.NoError(t, coll.InsertOne(ctx, newTestDoc("grace")))
	})
}
