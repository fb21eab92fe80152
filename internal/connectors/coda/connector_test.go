package coda

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimbaxley/codaframer/internal/core/domain"
)

// newTestConnector starts an httptest server with the given handler
// and returns a connector pointed at it.
func newTestConnector(t *testing.T, handler http.Handler) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewWithClient(NewClientWithHTTPClient(server.Client(), server.URL))
}

func TestValidate_Success(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/whoami", r.URL.Path)
		fmt.Fprint(w, `{"name":"Ada","loginId":"ada@example.com"}`)
	}))

	assert.NoError(t, connector.Validate(context.Background()))
}

func TestValidate_BadToken(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"statusCode":401,"statusMessage":"Unauthorized","message":"Invalid token"}`)
	}))

	err := connector.Validate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "Invalid token", apiErr.Message)
}

func TestListDocs_Pagination(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs", r.URL.Path)
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"items":[{"id":"doc-1","name":"First"}],"nextPageToken":"page2"}`)
			return
		}
		assert.Equal(t, "page2", r.URL.Query().Get("pageToken"))
		fmt.Fprint(w, `{"items":[{"id":"doc-2","name":"Second"}]}`)
	}))

	docs, err := connector.ListDocs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Doc{
		{ID: "doc-1", Name: "First"},
		{ID: "doc-2", Name: "Second"},
	}, docs)
}

func TestGetTable_ViewHasParentTable(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs/doc-1/tables/view-1", r.URL.Path)
		fmt.Fprint(w, `{"id":"view-1","name":"Active","tableType":"view","rowCount":7,"parentTable":{"id":"grid-base","name":"People"}}`)
	}))

	table, err := connector.GetTable(context.Background(), "doc-1", "view-1")
	require.NoError(t, err)
	assert.Equal(t, "view-1", table.ID)
	assert.Equal(t, "grid-base", table.ParentTableID)
	assert.Equal(t, 7, table.RowCount)
	assert.Equal(t, "doc-1", table.DocID)
}

func TestGetTable_NotFound(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"statusCode":404,"message":"Table not found"}`)
	}))

	_, err := connector.GetTable(context.Background(), "doc-1", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.True(t, IsNotFound(err))
}

func TestListColumns_Mapping(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[
			{"id":"c-1","name":"Title","format":{"type":"text"}},
			{"id":"c-2","name":"Status","format":{"type":"select","options":{"choices":[{"id":"opt-1","name":"Open"},{"name":"Closed"}]}}},
			{"id":"c-3","name":"Owners","format":{"type":"lookup","isArray":true,"table":{"id":"grid-people","name":"People"}}},
			{"id":"c-4","name":"Files","format":{"type":"attachments"}}
		]}`)
	}))

	columns, err := connector.ListColumns(context.Background(), "doc-1", "grid-1")
	require.NoError(t, err)
	require.Len(t, columns, 4)

	assert.Equal(t, domain.SourceColumn{ID: "c-1", Name: "Title", SourceType: domain.ColumnTypeText}, columns[0])

	assert.Equal(t, domain.ColumnTypeSelect, columns[1].SourceType)
	assert.Equal(t, []domain.Choice{{ID: "opt-1", Name: "Open"}, {Name: "Closed"}}, columns[1].Choices)

	assert.Equal(t, domain.ColumnTypeLookup, columns[2].SourceType)
	assert.True(t, columns[2].IsArray)
	assert.Equal(t, "grid-people", columns[2].ReferencedTableID)

	// attachments is aliased onto the canonical file tag.
	assert.Equal(t, domain.ColumnTypeFile, columns[3].SourceType)
}

func TestListRows_RichValuesAndOrder(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rich", r.URL.Query().Get("valueFormat"))
		assert.Equal(t, "false", r.URL.Query().Get("useColumnNames"))
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"items":[
				{"id":"i-1","index":0,"values":{"c-1":"plain"}},
				{"id":"i-2","index":1,"values":{"c-1":{"name":"wrapped","rowId":"r-7"}}}
			],"nextPageToken":"p2"}`)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":"i-3","index":2,"values":{"c-1":["a","b"]}}]}`)
	}))

	rows, err := connector.ListRows(context.Background(), "doc-1", "grid-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"i-1", "i-2", "i-3"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.Equal(t, "plain", rows[0].Values["c-1"])

	wrapped, ok := rows[1].Values["c-1"].(map[string]any)
	require.True(t, ok, "rich values stay structured")
	assert.Equal(t, "wrapped", wrapped["name"])
}

func TestListRows_RateLimited(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderRetryAfter, "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := connector.ListRows(context.Background(), "doc-1", "grid-1")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 403, Message: "Forbidden", URL: "https://coda.io/apis/v1/docs"}
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Forbidden")
	assert.True(t, IsForbidden(err))
	assert.False(t, IsUnauthorized(err))
}
