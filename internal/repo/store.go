// Package repo implements the data persistence layer for tags and rate-limit
// events, backed by GORM. This file provides Store, the single owner of the
// database handle shared by the rate limiter, the tag service and the sitemap
// exporter.
//
// Store opens its handle lazily. If the database cannot be opened or the
// schema cannot be created, every call fails with ErrUnavailable. A later call
// tries again once RetryBackoff has passed, so the process keeps serving
// degraded responses until the storage comes back. While degraded, callers
// that find a reconnect already running fail at once instead of queueing
// behind it. There is no background retry loop.
package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-tag-backend/internal/domain"
)

// ErrUnavailable is returned while the underlying database cannot be opened
// or initialized.
var ErrUnavailable = errors.New("tag store unavailable")

// DefaultRetryBackoff is the minimum delay between reopen attempts while the
// store is unavailable.
const DefaultRetryBackoff = time.Second

// Opener produces a ready-to-use GORM handle.
type Opener func() (*gorm.DB, error)

// SQLiteOpener returns an Opener that calls OpenSQLite(path).
func SQLiteOpener(path string) Opener {
	return func() (*gorm.DB, error) { return OpenSQLite(path) }
}

// Store owns the tags and rate_limit tables. It is safe for concurrent use;
// the only shared mutable state is the handle itself.
type Store struct {
	open  Opener
	seeds []string
	now   func() time.Time

	// RetryBackoff spaces out reopen attempts after a failure; zero retries
	// on every call.
	RetryBackoff time.Duration

	mu       sync.Mutex
	db       *gorm.DB
	ready    bool
	lastErr  error
	failedAt time.Time
	degraded atomic.Bool
}

// NewStore returns a Store that opens its database through open on first use
// and seeds an empty tag table with seeds.
func NewStore(open Opener, seeds []string) *Store {
	return &Store{
		open:         open,
		seeds:        seeds,
		now:          time.Now,
		RetryBackoff: DefaultRetryBackoff,
	}
}

// NewStoreWithDB wraps an already opened handle. The schema is still created
// on first use.
func NewStoreWithDB(db *gorm.DB, seeds []string) *Store {
	s := NewStore(func() (*gorm.DB, error) { return db, nil }, seeds)
	s.db = db
	return s
}

// handle returns the live handle, opening it and ensuring the schema if this
// has not succeeded yet.
func (s *Store) handle(ctx context.Context) (*gorm.DB, error) {
	if s.degraded.Load() {
		if !s.mu.TryLock() {
			return nil, fmt.Errorf("%w: reconnect in progress", ErrUnavailable)
		}
	} else {
		s.mu.Lock()
	}
	defer s.mu.Unlock()

	if s.ready {
		return s.db, nil
	}
	if s.lastErr != nil && s.now().Sub(s.failedAt) < s.RetryBackoff {
		return nil, s.lastErr
	}
	if err := s.connect(ctx); err != nil {
		s.lastErr, s.failedAt = err, s.now()
		s.degraded.Store(true)
		return nil, err
	}
	s.ready, s.lastErr = true, nil
	s.degraded.Store(false)
	return s.db, nil
}

// connect must be called with s.mu held.
func (s *Store) connect(ctx context.Context) error {
	if s.db == nil {
		db, err := s.open()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		s.db = db
	}
	if err := EnsureSchema(ctx, s.db, s.seeds); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// EnsureSchema opens the database if needed and creates the schema. It is
// idempotent and cheap once it has succeeded.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.handle(ctx)
	return err
}

// Ping verifies the live connection, opening the store first if needed.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DB returns the live handle, or ErrUnavailable.
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	return s.handle(ctx)
}

// Close releases the underlying connection pool, if one was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db, s.ready = nil, false
	return sqlDB.Close()
}

// InsertTagIfAbsent stores text unless it already exists; see the package
// function of the same name.
func (s *Store) InsertTagIfAbsent(ctx context.Context, text string) (bool, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return false, err
	}
	return InsertTagIfAbsent(ctx, db, text, s.now())
}

// CountTags returns the number of stored tags.
func (s *Store) CountTags(ctx context.Context) (int64, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	return CountTags(ctx, db)
}

// SampleTags returns up to n random tag texts.
func (s *Store) SampleTags(ctx context.Context, n int) ([]string, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}
	return SampleTags(ctx, db, n)
}

// ListAllTags returns every tag, newest first.
func (s *Store) ListAllTags(ctx context.Context) ([]domain.Tag, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}
	return ListAllTags(ctx, db)
}

// TagsStats returns the tag count and newest creation time.
func (s *Store) TagsStats(ctx context.Context) (int64, *time.Time, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, nil, err
	}
	return TagsStats(ctx, db)
}

// CountEventsSince counts identity's events with timestamp >= since.
func (s *Store) CountEventsSince(ctx context.Context, identity string, since int64) (int64, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	return CountEventsSince(ctx, db, identity, since)
}

// DeleteEventsOlderThan purges all events with timestamp < cutoff.
func (s *Store) DeleteEventsOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	return DeleteEventsOlderThan(ctx, db, cutoff)
}

// RecordEvent appends one rate-limit event.
func (s *Store) RecordEvent(ctx context.Context, identity string, ts int64) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}
	return RecordEvent(ctx, db, identity, ts)
}
