// Package handlers defines the machine-readable error codes carried in
// ErrorResponse. Codes are lowercase snake_case; clients branch on them rather
// than on messages.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Emitted by middleware (edge throttle, panic recovery).
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeUnknownAction    = "unknown_action"
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeSitemapFailed    = "sitemap_failed"
)
