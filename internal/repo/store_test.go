package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-tag-backend/internal/domain"
)

func TestStore_LazyOpenSeedsAndServes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s := NewStore(SQLiteOpener(path), domain.ExampleTags)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	n, err := s.CountTags(ctx)
	if err != nil {
		t.Fatalf("CountTags: %v", err)
	}
	if n != int64(len(domain.ExampleTags)) {
		t.Fatalf("expected seeded count %d, got %d", len(domain.ExampleTags), n)
	}

	inserted, err := s.InsertTagIfAbsent(ctx, "abc123") // a seed
	if err != nil || inserted {
		t.Fatalf("seed should already exist: inserted=%v err=%v", inserted, err)
	}
	inserted, err = s.InsertTagIfAbsent(ctx, "brand-new")
	if err != nil || !inserted {
		t.Fatalf("new tag: inserted=%v err=%v", inserted, err)
	}

	tags, err := s.ListAllTags(ctx)
	if err != nil || len(tags) != len(domain.ExampleTags)+1 {
		t.Fatalf("ListAllTags: len=%d err=%v", len(tags), err)
	}
	if tags[0].Text != "brand-new" {
		t.Fatalf("newest tag should come first, got %q", tags[0].Text)
	}

	if err := s.RecordEvent(ctx, "ip", 10); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if c, err := s.CountEventsSince(ctx, "ip", 0); err != nil || c != 1 {
		t.Fatalf("CountEventsSince: %d %v", c, err)
	}
	if removed, err := s.DeleteEventsOlderThan(ctx, 11); err != nil || removed != 1 {
		t.Fatalf("DeleteEventsOlderThan: %d %v", removed, err)
	}
	if c, _, err := s.TagsStats(ctx); err != nil || c != n+1 {
		t.Fatalf("TagsStats: %d %v", c, err)
	}
}

func TestStore_DegradedThenRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.db")
	down := true
	calls := 0
	open := func() (*gorm.DB, error) {
		calls++
		if down {
			return nil, errors.New("disk not mounted")
		}
		return OpenSQLite(path)
	}
	s := NewStore(open, nil)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	if _, err := s.CountTags(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := s.SampleTags(ctx, 10); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := s.InsertTagIfAbsent(ctx, "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls within the backoff must not reopen, opener called %d times", calls)
	}

	down = false
	if err := s.EnsureSchema(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("still inside backoff, expected ErrUnavailable, got %v", err)
	}

	clock = clock.Add(DefaultRetryBackoff)
	inserted, err := s.InsertTagIfAbsent(ctx, "x")
	if err != nil || !inserted {
		t.Fatalf("after recovery: inserted=%v err=%v", inserted, err)
	}
	before := calls
	if _, err := s.CountTags(ctx); err != nil {
		t.Fatalf("CountTags: %v", err)
	}
	if calls != before {
		t.Fatalf("opener must not be called once the store is ready")
	}
}

func TestStore_DegradedCallersDoNotQueueBehindReconnect(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	open := func() (*gorm.DB, error) {
		if first {
			first = false
			return nil, errors.New("disk not mounted")
		}
		close(entered)
		<-release
		return nil, errors.New("still not mounted")
	}
	s := NewStore(open, nil)
	s.RetryBackoff = 0
	ctx := context.Background()

	if _, err := s.CountTags(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.CountTags(ctx)
		done <- err
	}()
	<-entered

	start := time.Now()
	if _, err := s.SampleTags(ctx, 5); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable during reconnect, got %v", err)
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("degraded call waited %v for the reconnect", d)
	}

	close(release)
	if err := <-done; !errors.Is(err, ErrUnavailable) {
		t.Fatalf("reconnect should fail, got %v", err)
	}
}

func TestNewStoreWithDB_CreatesSchemaOnFirstUse(t *testing.T) {
	db := newTestDB(t /* no schema */)
	s := NewStoreWithDB(db, nil)

	got, err := s.SampleTags(context.Background(), 10)
	if err != nil {
		t.Fatalf("SampleTags: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty sample, got %v", got)
	}
	if !db.Migrator().HasTable("tags") {
		t.Fatalf("schema should exist after first use")
	}
}

func TestStore_Ping(t *testing.T) {
	ctx := context.Background()
	s := NewStore(SQLiteOpener(filepath.Join(t.TempDir(), "ping.db")), nil)
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	down := NewStore(func() (*gorm.DB, error) { return nil, errors.New("no disk") }, nil)
	if err := down.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
