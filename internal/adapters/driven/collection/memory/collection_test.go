package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimbaxley/codaframer/internal/core/domain"
)

func TestCollection_FieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewCollection("col-1", "Posts")

	fields, err := c.Fields(ctx)
	require.NoError(t, err)
	assert.Empty(t, fields)

	in := []domain.Field{
		{ID: "c-1", Name: "Title", Type: domain.FieldString},
		{ID: "c-2", Name: "Status", Type: domain.FieldEnum, Cases: []domain.EnumCase{{ID: "open", Name: "Open"}}},
	}
	require.NoError(t, c.SetFields(ctx, in))

	fields, err = c.Fields(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, fields)

	// Mutating the caller's slice must not leak into the store.
	in[0].Name = "Changed"
	fields, err = c.Fields(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Title", fields[0].Name)
}

func TestCollection_AddRemoveItems(t *testing.T) {
	ctx := context.Background()
	c := NewCollection("col-1", "Posts")

	require.NoError(t, c.AddItems(ctx, []domain.Item{
		{ID: "a", Slug: "a"},
		{ID: "b", Slug: "b"},
	}))

	ids, err := c.ItemIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	// Upsert replaces by ID.
	require.NoError(t, c.AddItems(ctx, []domain.Item{{ID: "a", Slug: "a-renamed"}}))
	item, ok := c.Item("a")
	require.True(t, ok)
	assert.Equal(t, "a-renamed", item.Slug)

	// Removing unknown IDs is a no-op.
	require.NoError(t, c.RemoveItems(ctx, []string{"b", "missing"}))
	ids, err = c.ItemIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestCollection_PluginData(t *testing.T) {
	ctx := context.Background()
	c := NewCollection("col-1", "Posts")

	v, err := c.PluginData(ctx, domain.PluginKeyDocID)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, c.SetPluginData(ctx, domain.PluginKeyDocID, "doc-1"))
	v, err = c.PluginData(ctx, domain.PluginKeyDocID)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", v)
}

func TestRegistry_GetAndList(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	_, err := r.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r.Add(NewCollection("b", "Second"))
	r.Add(NewCollection("a", "First"))

	got, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name())

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID())
	assert.Equal(t, "b", all[1].ID())
}
