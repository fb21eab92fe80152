package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimbaxley/codaframer/internal/core/domain"
)

func TestResolveForeignCollection_DirectMatch(t *testing.T) {
	people := newMockCollection("coll-people", "People")
	people.pluginData[domain.PluginKeyTableID] = "grid-people"
	people.pluginData[domain.PluginKeyDocID] = "doc-1"

	resolver := NewReferenceResolver(&mockDataSource{}, newMockRegistry(people))
	got, err := resolver.ResolveForeignCollection(context.Background(), "grid-people")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "coll-people", got.ID)
	assert.Equal(t, "People", got.Name)
}

func TestResolveForeignCollection_ViewIndirection(t *testing.T) {
	// The user synced a filtered view of the people table; the lookup
	// targets the base table. The second pass fetches the view's
	// metadata and matches on its parent table.
	view := newMockCollection("coll-view", "Active People")
	view.pluginData[domain.PluginKeyTableID] = "view-active"
	view.pluginData[domain.PluginKeyDocID] = "doc-1"

	source := &mockDataSource{
		tables: map[string]domain.Table{
			"view-active": {ID: "view-active", Name: "Active", ParentTableID: "grid-people"},
		},
	}

	resolver := NewReferenceResolver(source, newMockRegistry(view))
	got, err := resolver.ResolveForeignCollection(context.Background(), "grid-people")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "coll-view", got.ID)
}

func TestResolveForeignCollection_NoMatchIsSoft(t *testing.T) {
	unrelated := newMockCollection("coll-x", "Unrelated")
	unrelated.pluginData[domain.PluginKeyTableID] = "grid-other"
	unrelated.pluginData[domain.PluginKeyDocID] = "doc-1"

	source := &mockDataSource{
		tables: map[string]domain.Table{
			"grid-other": {ID: "grid-other", Name: "Other"},
		},
	}

	resolver := NewReferenceResolver(source, newMockRegistry(unrelated))
	got, err := resolver.ResolveForeignCollection(context.Background(), "grid-missing")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveForeignCollection_EmptyTarget(t *testing.T) {
	resolver := NewReferenceResolver(&mockDataSource{}, newMockRegistry())
	got, err := resolver.ResolveForeignCollection(context.Background(), "")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCollectEnumCases_FirstSeenOrder(t *testing.T) {
	rows := []domain.Row{
		{ID: "1", Values: map[string]domain.RawValue{"c-1": "Beta"}},
		{ID: "2", Values: map[string]domain.RawValue{"c-1": "Alpha"}},
		{ID: "3", Values: map[string]domain.RawValue{"c-1": "Beta"}},
		{ID: "4", Values: map[string]domain.RawValue{"c-1": map[string]any{"name": "Gamma"}}},
		{ID: "5", Values: map[string]domain.RawValue{"c-1": "`Alpha`"}},
	}

	cases := CollectEnumCases(rows, "c-1")

	assert.Equal(t, []domain.EnumCase{
		{ID: "Beta", Name: "Beta"},
		{ID: "Alpha", Name: "Alpha"},
		{ID: "Gamma", Name: "Gamma"},
	}, cases)
}

func TestCollectEnumCases_StableAcrossRuns(t *testing.T) {
	rows := []domain.Row{
		{ID: "1", Values: map[string]domain.RawValue{"c-1": "One"}},
		{ID: "2", Values: map[string]domain.RawValue{"c-1": "Two"}},
	}

	first := CollectEnumCases(rows, "c-1")
	second := CollectEnumCases(rows, "c-1")
	assert.Equal(t, first, second)
}

func TestCollectEnumCases_SkipsEmptyValues(t *testing.T) {
	rows := []domain.Row{
		{ID: "1", Values: map[string]domain.RawValue{"c-1": ""}},
		{ID: "2", Values: map[string]domain.RawValue{}},
		{ID: "3", Values: map[string]domain.RawValue{"c-1": "Only"}},
	}

	cases := CollectEnumCases(rows, "c-1")
	assert.Equal(t, []domain.EnumCase{{ID: "Only", Name: "Only"}}, cases)
}
