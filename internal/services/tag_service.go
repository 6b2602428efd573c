// Package services – TagService
//
// This file implements TagService, the write path and read views of the tag
// store. Insert normalizes the submitted text, consults the per-identity quota,
// performs an insert-if-absent and records the attempt. Every call resolves to
// exactly one domain.InsertOutcome; no error escapes to the caller.
//
// Read operations degrade instead of failing: Count reports 0 and Sample an
// empty list when the store is unavailable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-tag-backend/internal/domain"
	"github.com/tbourn/go-tag-backend/internal/observability"
	"github.com/tbourn/go-tag-backend/internal/repo"
)

// DefaultSampleSize is the number of tags returned by Sample when n <= 0.
const DefaultSampleSize = 10

// TagStore is the persistence contract required by TagService.
type TagStore interface {
	// InsertTagIfAbsent stores text unless it already exists; the bool
	// reports whether a new row was created.
	InsertTagIfAbsent(ctx context.Context, text string) (bool, error)
	// CountTags returns the number of stored tags.
	CountTags(ctx context.Context) (int64, error)
	// SampleTags returns up to n distinct tag texts in random order.
	SampleTags(ctx context.Context, n int) ([]string, error)
}

// QuotaLimiter is the quota contract required by TagService.
type QuotaLimiter interface {
	CheckAndCount(ctx context.Context, identity string, now time.Time) (Quota, error)
	Record(ctx context.Context, identity string, now time.Time) error
}

// TagService accepts tag submissions and serves the tag read views.
type TagService struct {
	Store   TagStore
	Limiter QuotaLimiter

	// MaxRunes caps stored text by rune length.
	MaxRunes int
	// SampleSize is used by Sample when the caller passes n <= 0.
	SampleSize int
	// Now is the clock; tests replace it.
	Now func() time.Time
}

// NewTagService constructs a TagService with default limits.
func NewTagService(store TagStore, limiter QuotaLimiter) *TagService {
	return &TagService{
		Store:      store,
		Limiter:    limiter,
		MaxRunes:   domain.MaxTagRunes,
		SampleSize: DefaultSampleSize,
		Now:        time.Now,
	}
}

// Insert submits rawText on behalf of identity.
//
// Order of evaluation: normalize (empty -> Invalid), quota check, then
// insert-if-absent, then record the attempt whatever the insert result, so
// duplicates and failed inserts consume quota like new tags. A quota denial or
// a failed check on a reachable store yields RateLimited; an unreachable store
// yields StoreError. A failure to record is logged and does not change the
// outcome.
func (s *TagService) Insert(ctx context.Context, rawText, identity string) (out domain.InsertOutcome) {
	ctx, span := observability.Tracer("services/TagService").Start(ctx, "Insert")
	defer span.End()
	defer func() {
		label := OutcomeLabel(out)
		tagOutcomes.WithLabelValues(label).Inc()
		span.SetAttributes(attribute.String("tag.outcome", label))
	}()

	lg := loggerFrom(ctx)

	text := NormalizeTag(rawText, s.maxRunes())
	if text == "" {
		return domain.Invalid{}
	}

	now := s.now()
	q, err := s.Limiter.CheckAndCount(ctx, identity, now)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repo.ErrUnavailable) {
			lg.Error().Err(err).Msg("tag store unavailable")
			span.SetStatus(codes.Error, "store unavailable")
			return domain.StoreError{Err: err}
		}
		lg.Error().Err(err).Str("identity", identity).Msg("rate limit check failed")
		return domain.RateLimited{Message: MsgRateCheckFailed}
	}
	if !q.Allowed {
		lg.Info().Str("identity", identity).Int("count", q.Count).Msg("tag quota exceeded")
		return domain.RateLimited{Message: q.Message}
	}

	inserted, insErr := s.Store.InsertTagIfAbsent(ctx, text)

	if err := s.Limiter.Record(ctx, identity, now); err != nil {
		lg.Warn().Err(err).Str("identity", identity).Msg("failed to record quota event")
	}

	if insErr != nil {
		lg.Error().Err(insErr).Msg("tag insert failed")
		span.RecordError(insErr)
		span.SetStatus(codes.Error, "insert failed")
		return domain.StoreError{Err: insErr}
	}

	remaining := q.Remaining - 1
	if inserted {
		return domain.Created{Tag: text, Remaining: remaining}
	}
	return domain.Duplicate{Tag: text, Remaining: remaining}
}

// Count returns the number of stored tags, or 0 when the store fails.
func (s *TagService) Count(ctx context.Context) int64 {
	ctx, span := observability.Tracer("services/TagService").Start(ctx, "Count")
	defer span.End()

	n, err := s.Store.CountTags(ctx)
	if err != nil {
		loggerFrom(ctx).Error().Err(err).Msg("tag count failed")
		span.RecordError(err)
		return 0
	}
	return n
}

// Sample returns up to n random tag texts; n <= 0 means SampleSize. A store
// failure yields an empty, non-nil slice.
func (s *TagService) Sample(ctx context.Context, n int) []string {
	ctx, span := observability.Tracer("services/TagService").Start(ctx, "Sample")
	defer span.End()

	if n <= 0 {
		n = s.SampleSize
		if n <= 0 {
			n = DefaultSampleSize
		}
	}
	span.SetAttributes(attribute.Int("tag.sample_size", n))

	tags, err := s.Store.SampleTags(ctx, n)
	if err != nil {
		loggerFrom(ctx).Error().Err(err).Msg("tag sample failed")
		span.RecordError(err)
		return []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

// tagCutset is the whitespace stripped from submitted text. Unicode spaces
// such as U+00A0 are kept and count as content.
const tagCutset = " \t\n\r\x00\x0b"

// NormalizeTag trims surrounding ASCII whitespace and NUL, then truncates to at
// most max runes.
// Truncation cuts on a rune boundary and is not followed by a second trim.
// Invalid UTF-8 bytes each count as one rune and are kept as-is.
func NormalizeTag(raw string, max int) string {
	s := strings.Trim(raw, tagCutset)
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func (s *TagService) maxRunes() int {
	if s.MaxRunes > 0 {
		return s.MaxRunes
	}
	return domain.MaxTagRunes
}

func (s *TagService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
