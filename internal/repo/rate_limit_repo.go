// Package repo implements the data persistence layer for tags and rate-limit
// events, backed by GORM. This file provides repository functions for the
// RateLimitEvent model.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-tag-backend/internal/domain"
)

// CountEventsSince counts events for identity with timestamp >= since.
func CountEventsSince(ctx context.Context, db *gorm.DB, identity string, since int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.RateLimitEvent{}).
		Where("identity = ? AND timestamp >= ?", identity, since).
		Count(&n).Error
	return n, err
}

// DeleteEventsOlderThan removes every event, for all identities, with
// timestamp < cutoff. It returns the number of rows removed.
func DeleteEventsOlderThan(ctx context.Context, db *gorm.DB, cutoff int64) (int64, error) {
	res := db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&domain.RateLimitEvent{})
	return res.RowsAffected, res.Error
}

// RecordEvent appends one event for identity at ts (unix seconds).
func RecordEvent(ctx context.Context, db *gorm.DB, identity string, ts int64) error {
	ev := &domain.RateLimitEvent{Identity: identity, Timestamp: ts}
	return db.WithContext(ctx).Create(ev).Error
}
