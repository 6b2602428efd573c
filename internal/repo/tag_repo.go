// Package repo implements the data persistence layer for tags and rate-limit
// events, backed by GORM. This file provides repository functions for the Tag
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Functions:
//
//   - InsertTagIfAbsent(ctx, db, text, now) -> (bool, error)
//     Single INSERT ... ON CONFLICT DO NOTHING; true when a row was written.
//
//   - CountTags(ctx, db) -> (int64, error)
//
//   - SampleTags(ctx, db, n) -> ([]string, error)
//     Up to n distinct tag texts in random order.
//
//   - ListAllTags(ctx, db) -> ([]domain.Tag, error)
//     Every tag, most recently created first.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-tag-backend/internal/domain"
)

// insertTagSQL relies on the UNIQUE constraint on tags.text; the engine decides
// atomically whether the row is written, so there is no check-then-insert race.
const insertTagSQL = `INSERT INTO tags (text, created_at) VALUES (?, ?) ON CONFLICT(text) DO NOTHING`

// InsertTagIfAbsent stores text unless an identical tag already exists.
// It reports true when a new row was written and false when the insert was
// suppressed by the uniqueness constraint. Suppression is not an error.
func InsertTagIfAbsent(ctx context.Context, db *gorm.DB, text string, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(insertTagSQL, text, now.UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountTags returns the total number of stored tags.
func CountTags(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Tag{}).
		Count(&total).Error
	return total, err
}

// SampleTags returns up to n tag texts chosen uniformly at random without
// replacement. A non-positive n or an empty table yields an empty slice.
func SampleTags(ctx context.Context, db *gorm.DB, n int) ([]string, error) {
	out := []string{}
	if n <= 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Model(&domain.Tag{}).
		Order("RANDOM()").
		Limit(n).
		Pluck("text", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllTags returns every tag ordered by creation time descending. Ties
// (e.g. seeds inserted in one batch) fall back to id descending.
func ListAllTags(ctx context.Context, db *gorm.DB) ([]domain.Tag, error) {
	var out []domain.Tag
	err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
