package coda

import (
	"errors"
	"fmt"
	"time"
)

// Coda-specific errors.
var (
	// ErrDocNotFound indicates the document was not found or is not
	// accessible with the configured token.
	ErrDocNotFound = errors.New("coda: document not found")

	// ErrTableNotFound indicates the table or view was not found.
	ErrTableNotFound = errors.New("coda: table not found")
)

// APIError represents a Coda API error response. The status code and
// message body are both kept so callers can surface them for
// diagnosis.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coda: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// RateLimitError indicates the API asked us to back off.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("coda: rate limit exceeded, retry after %s", e.RetryAfter)
}

// IsNotFound checks if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return errors.Is(err, ErrDocNotFound) || errors.Is(err, ErrTableNotFound)
}

// IsUnauthorized checks if the error indicates a bad or expired token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsForbidden checks if the error indicates a permissions problem.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
