package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthRequired indicates no API token is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the configured API token was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrNoTable indicates no source table has been selected yet.
	ErrNoTable = errors.New("no source table selected")

	// ErrSchemaWrite indicates the destination rejected the field schema.
	// A failed schema push aborts the whole sync attempt.
	ErrSchemaWrite = errors.New("destination schema write failed")

	// ErrItemWrite indicates a bulk add or remove call failed.
	ErrItemWrite = errors.New("destination item write failed")
)
