package driven

import (
	"context"

	"github.com/jimbaxley/codaframer/internal/core/domain"
)

// Collection is the destination content collection being synced into.
// It owns its field schema, its items, and an arbitrary string
// key-value store used for sync bookkeeping.
//
// The sync orchestrator assumes nothing about write atomicity: a
// failed AddItems may have written some items.
type Collection interface {
	// ID returns the collection's identifier.
	ID() string

	// Name returns the collection's display name.
	Name() string

	// Fields returns the current field schema.
	Fields(ctx context.Context) ([]domain.Field, error)

	// SetFields replaces the field schema.
	SetFields(ctx context.Context, fields []domain.Field) error

	// ItemIDs returns the IDs of all items currently in the collection.
	ItemIDs(ctx context.Context) ([]string, error)

	// AddItems upserts items by ID.
	AddItems(ctx context.Context, items []domain.Item) error

	// RemoveItems deletes items by ID. Unknown IDs are ignored.
	RemoveItems(ctx context.Context, ids []string) error

	// PluginData reads a bookkeeping value. Returns "" when unset.
	PluginData(ctx context.Context, key string) (string, error)

	// SetPluginData writes a bookkeeping value.
	SetPluginData(ctx context.Context, key, value string) error
}

// CollectionRegistry enumerates the known destination collections.
// The reference resolver walks it to match lookup columns against
// collections that were previously synced from the foreign table.
type CollectionRegistry interface {
	// Get returns a collection by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (Collection, error)

	// List returns all known collections.
	List(ctx context.Context) ([]Collection, error)
}
