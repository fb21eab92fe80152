package driven

import (
	"context"

	"github.com/jimbaxley/codaframer/internal/core/domain"
)

// DataSource fetches documents, tables, columns and rows from the
// upstream tabular API. Implementations handle pagination and rate
// limiting internally; all calls honour context cancellation.
//
// Columns and rows are fetched fresh every sync. Row order must be
// preserved across pages: enum case discovery depends on first-seen
// order being deterministic.
type DataSource interface {
	// Validate checks the configured credentials with a lightweight
	// API call. Returns domain.ErrAuthInvalid on rejection.
	Validate(ctx context.Context) error

	// ListDocs returns the documents the token can access.
	ListDocs(ctx context.Context) ([]domain.Doc, error)

	// ListTables returns the tables and views of a document.
	ListTables(ctx context.Context, docID string) ([]domain.Table, error)

	// GetTable returns one table's metadata, including the parent
	// table ID when the table is a view.
	GetTable(ctx context.Context, docID, tableID string) (*domain.Table, error)

	// ListColumns returns the column metadata of a table.
	ListColumns(ctx context.Context, docID, tableID string) ([]domain.SourceColumn, error)

	// ListRows returns all rows of a table in upstream order, with
	// rich (structured) cell values rather than flattened scalars.
	ListRows(ctx context.Context, docID, tableID string) ([]domain.Row, error)
}
