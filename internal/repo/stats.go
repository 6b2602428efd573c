// Package repo implements the data persistence layer for tags and rate-limit
// events, backed by GORM. This file provides a small aggregate query used for
// conditional responses (ETag generation) on the sitemap endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-tag-backend/internal/domain"
)

// TagsStats returns the total number of tags and the newest CreatedAt among
// them. When the table is empty, the returned count is 0 and newest is nil.
//
// Because tags are append-only, the pair changes exactly when the sitemap
// would change.
func TagsStats(ctx context.Context, db *gorm.DB) (count int64, newest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Tag{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.Tag{}).
		Select("created_at").Order("created_at DESC").Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
