package services

import (
	"context"
	"fmt"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
	"github.com/jimbaxley/codaframer/internal/logger"
)

// ForeignCollection identifies a destination collection previously
// synced from an upstream table.
type ForeignCollection struct {
	ID   string
	Name string
}

// ReferenceResolver matches lookup columns to destination collections
// so multi-valued lookups can become real cross-collection references
// instead of joined strings.
type ReferenceResolver struct {
	source   driven.DataSource
	registry driven.CollectionRegistry
}

// NewReferenceResolver creates a resolver over the given registry.
// The data source is used for the view-indirection pass and may make
// metadata calls.
func NewReferenceResolver(source driven.DataSource, registry driven.CollectionRegistry) *ReferenceResolver {
	return &ReferenceResolver{source: source, registry: registry}
}

// ResolveForeignCollection finds the collection synced from the given
// upstream table, or nil when none exists.
//
// Two passes: first a direct match on each collection's persisted
// table ID; then, because users often sync a filtered view rather
// than the base table, a second pass fetches each candidate table's
// metadata and matches its parent table against the target. Failure
// is soft: the caller degrades the field to a joined string.
func (r *ReferenceResolver) ResolveForeignCollection(ctx context.Context, foreignTableID string) (*ForeignCollection, error) {
	if foreignTableID == "" {
		return nil, nil
	}

	collections, err := r.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	type candidate struct {
		coll    driven.Collection
		docID   string
		tableID string
	}
	var candidates []candidate

	for _, coll := range collections {
		tableID, err := coll.PluginData(ctx, domain.PluginKeyTableID)
		if err != nil || tableID == "" {
			continue
		}
		if tableID == foreignTableID {
			return &ForeignCollection{ID: coll.ID(), Name: coll.Name()}, nil
		}
		docID, err := coll.PluginData(ctx, domain.PluginKeyDocID)
		if err != nil || docID == "" {
			continue
		}
		candidates = append(candidates, candidate{coll: coll, docID: docID, tableID: tableID})
	}

	// View indirection: a synced view's base table may be the target.
	for _, c := range candidates {
		table, err := r.source.GetTable(ctx, c.docID, c.tableID)
		if err != nil {
			logger.Debug("reference resolution: cannot fetch table %s: %v", c.tableID, err)
			continue
		}
		if table.ParentTableID == foreignTableID {
			return &ForeignCollection{ID: c.coll.ID(), Name: c.coll.Name()}, nil
		}
	}

	logger.Warn("no synced collection found for table %s, lookup degrades to text", foreignTableID)
	return nil, nil
}

// CollectEnumCases scans all rows' values for one column and returns
// the unique labels in first-seen order. Case ID and name are both
// the label itself, so the same data always produces the same cases.
func CollectEnumCases(rows []domain.Row, columnID string) []domain.EnumCase {
	seen := make(map[string]bool)
	var cases []domain.EnumCase

	for _, row := range rows {
		raw, ok := row.Values[columnID]
		if !ok {
			continue
		}
		label := extractEnumLabel(raw)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		cases = append(cases, domain.EnumCase{ID: label, Name: label})
	}

	return cases
}
