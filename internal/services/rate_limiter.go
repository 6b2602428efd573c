// Package services – RateLimiter
//
// This file implements the sliding-window write quota per client identity.
// Events live in the store's rate_limit table; every check first purges all
// expired events (for every identity), then counts the caller's events in the
// trailing window. There is no background sweeper.
//
// The purge, count and record steps are separate storage calls and are not
// wrapped in a lock. Concurrent requests from one identity can therefore
// overshoot the quota by at most the number of requests in flight at the same
// time; the count converges on the next check. This is an abuse-mitigation
// bound, not a strict one.
package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-tag-backend/internal/observability"
)

// Default quota parameters.
const (
	DefaultQuotaWindow = 60 * time.Second
	DefaultQuotaMax    = 20
)

// EventStore is the subset of the tag store used by RateLimiter.
type EventStore interface {
	// DeleteEventsOlderThan removes events with timestamp < cutoff for all identities.
	DeleteEventsOlderThan(ctx context.Context, cutoff int64) (int64, error)
	// CountEventsSince counts identity's events with timestamp >= since.
	CountEventsSince(ctx context.Context, identity string, since int64) (int64, error)
	// RecordEvent appends one event for identity at ts (unix seconds).
	RecordEvent(ctx context.Context, identity string, ts int64) error
}

// Quota is the result of a rate check.
//
// Remaining is computed before the caller's own attempt is recorded; callers
// that report it after recording subtract one.
type Quota struct {
	Allowed   bool
	Count     int
	Remaining int
	// Message is set when Allowed is false.
	Message string
}

// RateLimiter enforces at most Max recorded events per identity within any
// trailing Window.
type RateLimiter struct {
	Store  EventStore
	Window time.Duration
	Max    int
}

// NewRateLimiter builds a RateLimiter. Window is truncated to whole seconds
// because events are stored with second resolution.
func NewRateLimiter(store EventStore, window time.Duration, max int) (*RateLimiter, error) {
	window = window.Truncate(time.Second)
	if window <= 0 || max <= 0 {
		return nil, ErrInvalidQuota
	}
	return &RateLimiter{Store: store, Window: window, Max: max}, nil
}

// CheckAndCount purges expired events, counts identity's events in the window
// ending at now, and reports whether another attempt is allowed.
//
// A storage error is returned as-is; callers treat it as a denial.
func (rl *RateLimiter) CheckAndCount(ctx context.Context, identity string, now time.Time) (Quota, error) {
	ctx, span := observability.Tracer("services/RateLimiter").Start(ctx, "CheckAndCount",
		trace.WithAttributes(attribute.String("client.identity", identity)),
	)
	defer span.End()

	cutoff := now.Unix() - int64(rl.Window/time.Second)

	purged, err := rl.Store.DeleteEventsOlderThan(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		return Quota{}, err
	}
	if purged > 0 {
		quotaEventsPurged.Add(float64(purged))
	}

	n, err := rl.Store.CountEventsSince(ctx, identity, cutoff)
	if err != nil {
		span.RecordError(err)
		return Quota{}, err
	}
	count := int(n)
	span.SetAttributes(attribute.Int("quota.count", count))

	if count >= rl.Max {
		return Quota{
			Allowed: false,
			Count:   count,
			Message: fmt.Sprintf("Rate limit exceeded. Maximum %d tags per %s.", rl.Max, windowLabel(rl.Window)),
		}, nil
	}
	return Quota{Allowed: true, Count: count, Remaining: rl.Max - count}, nil
}

// Record appends one event for identity at now. It does not check the quota:
// calling Record without a prior allowed CheckAndCount lets an identity exceed
// its quota.
func (rl *RateLimiter) Record(ctx context.Context, identity string, now time.Time) error {
	return rl.Store.RecordEvent(ctx, identity, now.Unix())
}

func windowLabel(w time.Duration) string {
	switch w {
	case time.Minute:
		return "minute"
	case time.Hour:
		return "hour"
	}
	return w.String()
}
