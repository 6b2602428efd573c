// Package services defines the business logic for tag intake, quota
// enforcement and the derived read views. This file centralizes the
// user-facing messages and service-level error values so handlers can map
// them consistently.
package services

import "errors"

// User-facing messages carried in tag outcomes.
const (
	MsgTagSaved        = "Tag saved to database"
	MsgTagExists       = "Tag already exists"
	MsgInvalidInput    = "Invalid input"
	MsgRateCheckFailed = "Rate limit check failed"
	MsgDatabaseError   = "Database error"
)

var (
	// ErrInvalidQuota is returned by NewRateLimiter when the window or the
	// per-window maximum is not positive.
	ErrInvalidQuota = errors.New("quota window and maximum must be positive")
)
