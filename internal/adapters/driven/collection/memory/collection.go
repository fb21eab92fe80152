package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.Collection = (*Collection)(nil)

// Collection is an in-memory implementation of driven.Collection.
// Used by tests and by dry-run previews.
type Collection struct {
	mu         sync.RWMutex
	id         string
	name       string
	fields     []domain.Field
	items      map[string]domain.Item
	pluginData map[string]string
}

// NewCollection creates an empty in-memory collection.
func NewCollection(id, name string) *Collection {
	return &Collection{
		id:         id,
		name:       name,
		items:      make(map[string]domain.Item),
		pluginData: make(map[string]string),
	}
}

// ID returns the collection's identifier.
func (c *Collection) ID() string {
	return c.id
}

// Name returns the collection's display name.
func (c *Collection) Name() string {
	return c.name
}

// Fields returns the current field schema.
func (c *Collection) Fields(_ context.Context) ([]domain.Field, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Field, len(c.fields))
	copy(out, c.fields)
	return out, nil
}

// SetFields replaces the field schema.
func (c *Collection) SetFields(_ context.Context, fields []domain.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = make([]domain.Field, len(fields))
	copy(c.fields, fields)
	return nil
}

// ItemIDs returns the IDs of all items, sorted for determinism.
func (c *Collection) ItemIDs(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// AddItems upserts items by ID.
func (c *Collection) AddItems(_ context.Context, items []domain.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range items {
		c.items[item.ID] = item
	}
	return nil
}

// RemoveItems deletes items by ID. Unknown IDs are ignored.
func (c *Collection) RemoveItems(_ context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.items, id)
	}
	return nil
}

// PluginData reads a bookkeeping value. Returns "" when unset.
func (c *Collection) PluginData(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pluginData[key], nil
}

// SetPluginData writes a bookkeeping value.
func (c *Collection) SetPluginData(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pluginData[key] = value
	return nil
}

// Item returns a stored item by ID. Test helper, not part of the port.
func (c *Collection) Item(id string) (domain.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// Ensure Registry implements the interface.
var _ driven.CollectionRegistry = (*Registry)(nil)

// Registry is an in-memory implementation of driven.CollectionRegistry.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{collections: make(map[string]*Collection)}
}

// Add registers a collection.
func (r *Registry) Add(c *Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[c.ID()] = c
}

// Get returns a collection by ID, or domain.ErrNotFound.
func (r *Registry) Get(_ context.Context, id string) (driven.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// List returns all known collections sorted by ID.
func (r *Registry) List(_ context.Context) ([]driven.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.collections))
	for id := range r.collections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]driven.Collection, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.collections[id])
	}
	return out, nil
}
