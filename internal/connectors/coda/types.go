package coda

// Wire types for the Coda v1 API. Only the properties the sync needs
// are decoded; everything else in the payload is ignored.

// docsPage is the response of GET /docs.
type docsPage struct {
	Items         []apiDoc `json:"items"`
	NextPageToken string   `json:"nextPageToken"`
}

type apiDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// tablesPage is the response of GET /docs/{docId}/tables.
type tablesPage struct {
	Items         []apiTable `json:"items"`
	NextPageToken string     `json:"nextPageToken"`
}

// apiTable is a table or view. Views carry a parentTable reference to
// the base table they project.
type apiTable struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	TableType   string         `json:"tableType"`
	Name        string         `json:"name"`
	RowCount    int            `json:"rowCount"`
	ParentTable *tableRef      `json:"parentTable"`
	Parent      *pageReference `json:"parent"`
}

type tableRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pageReference struct {
	ID string `json:"id"`
}

// columnsPage is the response of GET /docs/{docId}/tables/{id}/columns.
type columnsPage struct {
	Items         []apiColumn `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

type apiColumn struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Format columnFormat `json:"format"`
}

type columnFormat struct {
	Type    string         `json:"type"`
	IsArray bool           `json:"isArray"`
	Options *formatOptions `json:"options"`
	Table   *tableRef      `json:"table"`
}

type formatOptions struct {
	Choices []apiChoice `json:"choices"`
}

type apiChoice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// rowsPage is the response of GET /docs/{docId}/tables/{id}/rows.
type rowsPage struct {
	Items         []apiRow `json:"items"`
	NextPageToken string   `json:"nextPageToken"`
}

// apiRow carries raw cell values keyed by column ID. With
// valueFormat=rich the values are structured wrapper objects rather
// than flattened scalars, which is what the transform layer wants.
type apiRow struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Index  int            `json:"index"`
	Values map[string]any `json:"values"`
}

// whoamiResponse is the response of GET /whoami, used for credential
// validation.
type whoamiResponse struct {
	Name  string `json:"name"`
	Login string `json:"loginId"`
}

// apiError is the error body Coda returns on non-2xx responses.
type apiError struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
}
