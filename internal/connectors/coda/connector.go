package coda

import (
	"context"
	"fmt"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.DataSource = (*Connector)(nil)

// Connector adapts the Coda API client to the driven.DataSource port.
type Connector struct {
	client *Client
}

// New creates a connector authenticated with a static API token.
func New(ctx context.Context, token string) *Connector {
	return &Connector{client: NewClient(ctx, token)}
}

// NewWithClient creates a connector over an existing client. Used by
// tests.
func NewWithClient(client *Client) *Connector {
	return &Connector{client: client}
}

// Validate checks the token with a whoami call.
func (c *Connector) Validate(ctx context.Context) error {
	_, err := c.client.Whoami(ctx)
	if err == nil {
		return nil
	}
	if IsUnauthorized(err) {
		return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
	}
	return err
}

// ListDocs returns the documents the token can access.
func (c *Connector) ListDocs(ctx context.Context) ([]domain.Doc, error) {
	apiDocs, err := c.client.ListDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}

	docs := make([]domain.Doc, 0, len(apiDocs))
	for _, d := range apiDocs {
		docs = append(docs, domain.Doc{ID: d.ID, Name: d.Name})
	}
	return docs, nil
}

// ListTables returns the tables and views of a document.
func (c *Connector) ListTables(ctx context.Context, docID string) ([]domain.Table, error) {
	apiTables, err := c.client.ListTables(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("list tables for %s: %w", docID, err)
	}

	tables := make([]domain.Table, 0, len(apiTables))
	for _, t := range apiTables {
		tables = append(tables, toDomainTable(t, docID))
	}
	return tables, nil
}

// GetTable returns one table's metadata.
func (c *Connector) GetTable(ctx context.Context, docID, tableID string) (*domain.Table, error) {
	t, err := c.client.GetTable(ctx, docID, tableID)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrTableNotFound, err)
		}
		return nil, fmt.Errorf("get table %s: %w", tableID, err)
	}
	table := toDomainTable(*t, docID)
	return &table, nil
}

// ListColumns returns the column metadata of a table.
func (c *Connector) ListColumns(ctx context.Context, docID, tableID string) ([]domain.SourceColumn, error) {
	apiColumns, err := c.client.ListColumns(ctx, docID, tableID)
	if err != nil {
		return nil, fmt.Errorf("list columns for %s: %w", tableID, err)
	}

	columns := make([]domain.SourceColumn, 0, len(apiColumns))
	for _, col := range apiColumns {
		columns = append(columns, toDomainColumn(col))
	}
	return columns, nil
}

// ListRows returns all rows of a table in upstream order.
func (c *Connector) ListRows(ctx context.Context, docID, tableID string) ([]domain.Row, error) {
	apiRows, err := c.client.ListRows(ctx, docID, tableID)
	if err != nil {
		return nil, fmt.Errorf("list rows for %s: %w", tableID, err)
	}

	rows := make([]domain.Row, 0, len(apiRows))
	for _, r := range apiRows {
		rows = append(rows, domain.Row{ID: r.ID, Values: r.Values})
	}
	return rows, nil
}

func toDomainTable(t apiTable, docID string) domain.Table {
	table := domain.Table{
		ID:       t.ID,
		Name:     t.Name,
		DocID:    docID,
		RowCount: t.RowCount,
	}
	if t.ParentTable != nil {
		table.ParentTableID = t.ParentTable.ID
	}
	return table
}

// columnTypeAliases maps wire format types onto the canonical tags
// the type mapper understands. Unknown tags pass through untouched
// and fall to the mapper's string fallback.
var columnTypeAliases = map[string]string{
	"attachments": domain.ColumnTypeFile,
	"imageRef":    domain.ColumnTypeImage,
	"url":         domain.ColumnTypeLink,
}

func toDomainColumn(col apiColumn) domain.SourceColumn {
	sourceType := col.Format.Type
	if alias, ok := columnTypeAliases[sourceType]; ok {
		sourceType = alias
	}

	out := domain.SourceColumn{
		ID:         col.ID,
		Name:       col.Name,
		SourceType: sourceType,
		IsArray:    col.Format.IsArray,
	}

	if col.Format.Table != nil {
		out.ReferencedTableID = col.Format.Table.ID
	}
	if col.Format.Options != nil {
		for _, choice := range col.Format.Options.Choices {
			out.Choices = append(out.Choices, domain.Choice{ID: choice.ID, Name: choice.Name})
		}
	}
	return out
}
