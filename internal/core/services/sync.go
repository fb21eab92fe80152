package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
	"github.com/jimbaxley/codaframer/internal/core/ports/driving"
	"github.com/jimbaxley/codaframer/internal/logger"
)

// Ensure Importer implements the interface.
var _ driving.Importer = (*Importer)(nil)

// Importer runs full-table syncs from the upstream source into a
// destination collection: map columns, transform rows, reconcile the
// item set, write, persist bookkeeping.
type Importer struct {
	source   driven.DataSource
	registry driven.CollectionRegistry
	resolver *ReferenceResolver
	settings domain.Settings
}

// NewImporter creates an importer. Settings carry the sync-wide
// formatting preferences and are passed through to every transform.
func NewImporter(source driven.DataSource, registry driven.CollectionRegistry, settings domain.Settings) *Importer {
	return &Importer{
		source:   source,
		registry: registry,
		resolver: NewReferenceResolver(source, registry),
		settings: settings,
	}
}

// Sync performs one full sync. Row-level problems (missing row ID,
// empty slug, unusable values) skip the row or field and continue;
// schema-push and bulk write failures abort and surface to the caller.
//
// Cancellation is honoured up to the first destination write; after
// writes begin the sync runs to completion or hard failure.
func (i *Importer) Sync(ctx context.Context, req driving.SyncRequest) (*driving.SyncResult, error) {
	collection, err := i.registry.Get(ctx, req.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", req.CollectionID, err)
	}

	state, err := i.effectiveState(ctx, collection, req)
	if err != nil {
		return nil, err
	}

	logger.Section("sync " + collection.Name())
	logger.Info("Syncing table %s/%s into collection %s", state.DocID, state.TableID, collection.Name())

	columns, err := i.source.ListColumns(ctx, state.DocID, state.TableID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}

	rows, err := i.source.ListRows(ctx, state.DocID, state.TableID)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}

	fields, colTypes := i.buildFields(ctx, columns, rows)

	if err := i.reconcileFieldNames(ctx, collection, fields); err != nil {
		return nil, err
	}

	items, skipped := i.buildItems(rows, fields, colTypes, state.SlugFieldID)

	existingIDs, err := collection.ItemIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("get item ids: %w", err)
	}
	toRemove := staleIDs(existingIDs, items)

	result := &driving.SyncResult{
		Upserted:    len(items),
		Removed:     len(toRemove),
		SkippedRows: skipped,
		Fields:      len(fields),
	}

	if req.DryRun {
		return result, nil
	}

	// Last cancellation point: once writing starts, run to the end.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := collection.SetFields(ctx, fields); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaWrite, err)
	}
	if err := collection.AddItems(ctx, items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrItemWrite, err)
	}
	if len(toRemove) > 0 {
		if err := collection.RemoveItems(ctx, toRemove); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrItemWrite, err)
		}
	}

	if err := i.persistState(ctx, collection, state); err != nil {
		return nil, fmt.Errorf("persist sync state: %w", err)
	}

	logger.Info("Sync complete: %d items, %d removed, %d rows skipped", result.Upserted, result.Removed, result.SkippedRows)
	return result, nil
}

// effectiveState merges the request with the collection's persisted
// bookkeeping: explicit request values win, persisted values fill the
// gaps, the slug falls back to the synthetic row-ID field.
func (i *Importer) effectiveState(ctx context.Context, collection driven.Collection, req driving.SyncRequest) (domain.SyncState, error) {
	state := domain.SyncState{
		DocID:       req.DocID,
		TableID:     req.TableID,
		SlugFieldID: req.SlugFieldID,
	}

	read := func(key string) string {
		v, err := collection.PluginData(ctx, key)
		if err != nil {
			return ""
		}
		return v
	}

	if state.DocID == "" {
		state.DocID = read(domain.PluginKeyDocID)
	}
	if state.TableID == "" {
		state.TableID = read(domain.PluginKeyTableID)
	}
	if state.SlugFieldID == "" {
		state.SlugFieldID = read(domain.PluginKeySlugFieldID)
	}
	if state.SlugFieldID == "" {
		state.SlugFieldID = domain.RowIDField
	}

	if state.DocID == "" || state.TableID == "" {
		return state, domain.ErrNoTable
	}
	return state, nil
}

// buildFields maps columns to fields, upgrades multi-lookups that
// resolve to synced collections, and back-fills enum cases for
// lookup-derived enums by scanning row data. Returns the fields plus
// a field-ID → source-type map for the transform pass.
func (i *Importer) buildFields(ctx context.Context, columns []domain.SourceColumn, rows []domain.Row) ([]domain.Field, map[string]string) {
	var fields []domain.Field
	colTypes := make(map[string]string, len(columns))

	for _, col := range columns {
		field := MapColumn(col)
		if field == nil {
			logger.Debug("dropping column %q (%s): no destination representation", col.Name, col.SourceType)
			continue
		}

		if col.IsArray && col.ReferencedTableID != "" && field.Type == domain.FieldString {
			foreign, err := i.resolver.ResolveForeignCollection(ctx, col.ReferencedTableID)
			if err != nil {
				logger.Warn("resolving references for column %q: %v", col.Name, err)
			} else if foreign != nil {
				field.Type = domain.FieldMultiReference
				field.CollectionID = foreign.ID
			}
		}

		if field.Type == domain.FieldEnum && len(field.Cases) == 0 {
			field.Cases = CollectEnumCases(rows, col.ID)
		}

		colTypes[field.ID] = col.SourceType
		fields = append(fields, *field)
	}

	return fields, colTypes
}

// reconcileFieldNames keeps user-edited display names: when the
// destination already has a field with the same ID, its name wins.
// Structural information (type, cases, references) always comes from
// the fresh computation.
func (i *Importer) reconcileFieldNames(ctx context.Context, collection driven.Collection, fields []domain.Field) error {
	existing, err := collection.Fields(ctx)
	if err != nil {
		return fmt.Errorf("get existing fields: %w", err)
	}
	for idx := range fields {
		if prev := domain.FieldByID(existing, fields[idx].ID); prev != nil && prev.Name != "" {
			fields[idx].Name = prev.Name
		}
	}
	return nil
}

// buildItems transforms every row. Rows without a stable ID or a
// usable slug are skipped with a warning; a bad row never aborts the
// batch.
func (i *Importer) buildItems(rows []domain.Row, fields []domain.Field, colTypes map[string]string, slugFieldID string) (items []domain.Item, skipped int) {
	for _, row := range rows {
		if strings.TrimSpace(row.ID) == "" {
			logger.Warn("skipping row with empty row ID")
			skipped++
			continue
		}

		entries := make(map[string]*domain.TypedEntry, len(fields))
		for _, field := range fields {
			entry := TransformValue(row.Values[field.ID], field, colTypes[field.ID], i.settings)
			if entry == nil {
				continue
			}
			entries[field.ID] = entry
		}

		slug := i.slugForRow(row, entries, slugFieldID)
		if slug == "" {
			logger.Warn("skipping row %s: empty slug value", row.ID)
			skipped++
			continue
		}

		items = append(items, domain.Item{
			ID:      row.ID,
			Slug:    slug,
			Entries: entries,
			Draft:   false,
		})
	}
	return items, skipped
}

// slugForRow resolves the slug: the row ID for the synthetic field,
// otherwise the transformed string value of the chosen column.
func (i *Importer) slugForRow(row domain.Row, entries map[string]*domain.TypedEntry, slugFieldID string) string {
	if slugFieldID == domain.RowIDField {
		return Slugify(row.ID)
	}
	entry, ok := entries[slugFieldID]
	if !ok || entry == nil {
		return ""
	}
	s, _ := entry.Value.(string)
	return Slugify(s)
}

// persistState writes the bookkeeping read back by the next sync and
// by the reference resolver's cross-collection matching.
func (i *Importer) persistState(ctx context.Context, collection driven.Collection, state domain.SyncState) error {
	pairs := map[string]string{
		domain.PluginKeyDocID:       state.DocID,
		domain.PluginKeyTableID:     state.TableID,
		domain.PluginKeySlugFieldID: state.SlugFieldID,
	}
	for key, value := range pairs {
		if err := collection.SetPluginData(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// staleIDs returns the existing item IDs not covered by the new item
// set. Full-replacement reconciliation: anything the source no longer
// has gets removed.
func staleIDs(existing []string, items []domain.Item) []string {
	keep := make(map[string]bool, len(items))
	for _, item := range items {
		keep[item.ID] = true
	}
	var stale []string
	for _, id := range existing {
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	return stale
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a value and collapses everything that is not a
// letter or digit into single hyphens.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
