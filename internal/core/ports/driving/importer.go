package driving

import "context"

// SyncRequest selects what to sync and where to.
type SyncRequest struct {
	// CollectionID is the destination collection.
	CollectionID string

	// DocID and TableID select the upstream table. When empty, the
	// collection's persisted bookkeeping from the previous sync is
	// used ("resync with same mapping").
	DocID   string
	TableID string

	// SlugFieldID is the column that produces item slugs, or
	// domain.RowIDField for the upstream row ID. When empty, the
	// persisted choice is reused.
	SlugFieldID string

	// DryRun computes the reconciliation plan without writing.
	DryRun bool
}

// SyncResult summarises one sync invocation.
type SyncResult struct {
	// Upserted is the number of items written (or planned, on dry run).
	Upserted int

	// Removed is the number of stale items deleted.
	Removed int

	// SkippedRows counts rows dropped for missing row ID or slug.
	SkippedRows int

	// Fields is the number of destination fields in the pushed schema.
	Fields int
}

// Importer runs a full sync of one upstream table into one
// destination collection. Invocations against the same collection
// must not overlap; the caller serialises them.
type Importer interface {
	Sync(ctx context.Context, req SyncRequest) (*SyncResult, error)
}
