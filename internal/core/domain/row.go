package domain

// Row is one upstream table row: a stable upstream-assigned ID plus
// the raw cell values keyed by column ID.
type Row struct {
	ID     string
	Values map[string]RawValue
}

// Item is one destination collection item ready to write: the slug,
// plus the typed entries keyed by field ID. Fields whose transform
// produced no entry are simply absent from the map.
type Item struct {
	ID      string
	Slug    string
	Entries map[string]*TypedEntry
	Draft   bool
}

// Doc is an upstream document (a container of tables).
type Doc struct {
	ID   string
	Name string
}

// Table is an upstream table or view. Views carry the ID of the base
// table they project, which the reference resolver needs when a user
// synced a view rather than the table itself.
type Table struct {
	ID            string
	Name          string
	DocID         string
	ParentTableID string
	RowCount      int
}

// SyncState is the bookkeeping persisted in the destination
// collection's key-value store after a successful sync, and read back
// at the start of the next one to resync with the same mapping.
type SyncState struct {
	// DocID is the upstream document the collection was synced from.
	DocID string

	// TableID is the upstream table. Also used by the reference
	// resolver to match lookup columns to already-synced collections.
	TableID string

	// SlugFieldID is the column chosen to produce item slugs.
	SlugFieldID string
}

// Plugin-data keys under which SyncState is persisted per collection.
const (
	PluginKeyDocID       = "codaDocId"
	PluginKeyTableID     = "codaTableId"
	PluginKeySlugFieldID = "slugFieldId"
)

// RowIDField is the synthetic slug choice meaning "use the upstream
// row ID itself", always available even when no column qualifies.
const RowIDField = ":row-id"
