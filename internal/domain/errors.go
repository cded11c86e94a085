package domain

import "errors"

// Remote store errors
var (
	// ErrNotFound indicates the requested entry does not exist
	ErrNotFound = errors.New("entry not found")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRateLimited indicates the remote store rejected the call for rate limiting
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota has been exhausted
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// Catalog errors
var (
	// ErrCatalogSchema indicates a loaded catalog lacks the identifier column
	ErrCatalogSchema = errors.New("invalid catalog schema")

	// ErrScanInProgress indicates another scan is already running
	ErrScanInProgress = errors.New("scan already in progress")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)
