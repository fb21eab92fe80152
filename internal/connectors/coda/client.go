package coda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the Coda v1 API root.
	DefaultBaseURL = "https://coda.io/apis/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PageLimit is the page size requested for list endpoints.
	PageLimit = 100
)

// Client is a thin Coda API client: bearer auth, rate limiting, JSON
// decoding and typed errors. Endpoint methods return wire types; the
// Connector converts them to domain types.
type Client struct {
	baseURL     string
	http        *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client authenticated with a static API token.
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		baseURL:     DefaultBaseURL,
		http:        tc,
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client
// and base URL. Used by tests against an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		http:        httpClient,
		rateLimiter: NewRateLimiter(),
	}
}

// getJSON performs a rate-limited GET and decodes the response into
// out. Non-2xx responses become *APIError (or *RateLimitError for a
// 429) carrying the status code and the message body.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.rateLimiter.UpdateFromResponse(resp)
		retryAfter := 5 * time.Second
		if v := resp.Header.Get(HeaderRetryAfter); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp, u)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFromResponse builds an *APIError from a non-2xx response,
// preferring the structured message body when one is present.
func (c *Client) errorFromResponse(resp *http.Response, requestURL string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := http.StatusText(resp.StatusCode)
	var decoded apiError
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Message != "" {
			message = decoded.Message
		} else if decoded.StatusMessage != "" {
			message = decoded.StatusMessage
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		URL:        requestURL,
	}
}

// Whoami checks the configured token with a lightweight call.
func (c *Client) Whoami(ctx context.Context) (*whoamiResponse, error) {
	var out whoamiResponse
	if err := c.getJSON(ctx, "/whoami", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocs returns all documents the token can access.
func (c *Client) ListDocs(ctx context.Context) ([]apiDoc, error) {
	var docs []apiDoc
	err := c.paginate(ctx, func(pageToken string) (string, error) {
		var page docsPage
		if err := c.getJSON(ctx, "/docs", pageQuery(pageToken), &page); err != nil {
			return "", err
		}
		docs = append(docs, page.Items...)
		return page.NextPageToken, nil
	})
	return docs, err
}

// ListTables returns all tables and views of a document.
func (c *Client) ListTables(ctx context.Context, docID string) ([]apiTable, error) {
	path := "/docs/" + url.PathEscape(docID) + "/tables"
	var tables []apiTable
	err := c.paginate(ctx, func(pageToken string) (string, error) {
		var page tablesPage
		if err := c.getJSON(ctx, path, pageQuery(pageToken), &page); err != nil {
			return "", err
		}
		tables = append(tables, page.Items...)
		return page.NextPageToken, nil
	})
	return tables, err
}

// GetTable fetches one table's metadata, including the parent table
// reference for views.
func (c *Client) GetTable(ctx context.Context, docID, tableID string) (*apiTable, error) {
	path := "/docs/" + url.PathEscape(docID) + "/tables/" + url.PathEscape(tableID)
	var table apiTable
	if err := c.getJSON(ctx, path, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ListColumns returns all columns of a table.
func (c *Client) ListColumns(ctx context.Context, docID, tableID string) ([]apiColumn, error) {
	path := "/docs/" + url.PathEscape(docID) + "/tables/" + url.PathEscape(tableID) + "/columns"
	var columns []apiColumn
	err := c.paginate(ctx, func(pageToken string) (string, error) {
		var page columnsPage
		if err := c.getJSON(ctx, path, pageQuery(pageToken), &page); err != nil {
			return "", err
		}
		columns = append(columns, page.Items...)
		return page.NextPageToken, nil
	})
	return columns, err
}

// ListRows returns all rows of a table in upstream order, with rich
// structured cell values.
func (c *Client) ListRows(ctx context.Context, docID, tableID string) ([]apiRow, error) {
	path := "/docs/" + url.PathEscape(docID) + "/tables/" + url.PathEscape(tableID) + "/rows"
	base := url.Values{
		"valueFormat":    {"rich"},
		"useColumnNames": {"false"},
		"sortBy":         {"natural"},
	}

	var rows []apiRow
	err := c.paginate(ctx, func(pageToken string) (string, error) {
		query := pageQuery(pageToken)
		for k, v := range base {
			query[k] = v
		}
		var page rowsPage
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return "", err
		}
		rows = append(rows, page.Items...)
		return page.NextPageToken, nil
	})
	return rows, err
}

// paginate drives a page-token loop: fetch is called with each token
// (empty for the first page) and returns the next token, stopping on
// an empty one. Context cancellation is checked between pages.
func (c *Client) paginate(ctx context.Context, fetch func(pageToken string) (string, error)) error {
	token := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		next, err := fetch(token)
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		token = next
	}
}

// pageQuery builds the shared pagination parameters.
func pageQuery(pageToken string) url.Values {
	query := url.Values{"limit": {strconv.Itoa(PageLimit)}}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}
	return query
}
