// Package domain defines the persistence models for tags and rate-limit
// events, plus the typed outcomes produced by the tag service. The models are
// mapped with GORM and form the core data layer of the tag backend.
package domain

import (
	"strings"
	"time"
)

// MaxTagRunes is the default cap, in code points, for a stored tag's text.
const MaxTagRunes = 30

// Tag is a short, unique text record submitted by a client.
//
// Fields:
//   - ID: autoincrement surrogate key; SQLite AUTOINCREMENT never reuses values.
//   - Text: trimmed and truncated submission; unique across all tags.
//   - CreatedAt: set once on insert and never updated.
//
// Tags are immutable. No update or delete path exists.
type Tag struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	Text      string    `json:"text"       gorm:"column:text;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// RateLimitEvent records one accepted write attempt from a client identity.
// Timestamp is unix seconds. Events older than the quota window carry no
// meaning and may be purged at any time.
type RateLimitEvent struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Identity  string `gorm:"column:identity;type:text;not null;index:idx_rate_limit_identity,priority:1"`
	Timestamp int64  `gorm:"column:timestamp;not null;index:idx_rate_limit_identity,priority:2"`
}

// TableName returns the database table name for RateLimitEvent.
func (RateLimitEvent) TableName() string { return "rate_limit" }

// SplitTagLink splits an opaque "text|url" tag payload into its display text
// and optional companion link. Only the first '|' separates; the link keeps
// any further pipes.
func SplitTagLink(tag string) (text, link string) {
	text, link, _ = strings.Cut(tag, "|")
	return text, link
}
