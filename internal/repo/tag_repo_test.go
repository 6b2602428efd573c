package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestInsertTagIfAbsent_InsertThenDuplicate(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	inserted, err := InsertTagIfAbsent(ctx, db, "hello", fixedTime)
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}
	inserted, err = InsertTagIfAbsent(ctx, db, "hello", fixedTime.Add(time.Hour))
	if err != nil {
		t.Fatalf("duplicate insert must not error: %v", err)
	}
	if inserted {
		t.Fatalf("duplicate insert must report false")
	}
	if n, _ := CountTags(ctx, db); n != 1 {
		t.Fatalf("expected exactly one row, got %d", n)
	}

	// Exact-match uniqueness: case differs → distinct tag.
	if inserted, _ := InsertTagIfAbsent(ctx, db, "Hello", fixedTime); !inserted {
		t.Fatalf("expected case-different text to be stored")
	}
}

func TestInsertTagIfAbsent_KeepsOriginalCreatedAt(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	_, _ = InsertTagIfAbsent(ctx, db, "once", fixedTime)
	_, _ = InsertTagIfAbsent(ctx, db, "once", fixedTime.Add(48*time.Hour))

	tags, err := ListAllTags(ctx, db)
	if err != nil || len(tags) != 1 {
		t.Fatalf("ListAllTags: %v %v", tags, err)
	}
	if !tags[0].CreatedAt.Equal(fixedTime) {
		t.Fatalf("created_at changed: %v", tags[0].CreatedAt)
	}
}

func TestInsertTagIfAbsent_ErrorWithoutTable(t *testing.T) {
	db := newTestDB(t /* no schema */)
	if _, err := InsertTagIfAbsent(context.Background(), db, "x", fixedTime); err == nil {
		t.Fatalf("expected error when tags table is missing")
	}
}

func TestInsertTagIfAbsent_ConcurrentSameText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	ctx := context.Background()
	if err := EnsureSchema(ctx, db, nil); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := InsertTagIfAbsent(ctx, db, "race", time.Now())
			if err != nil {
				t.Errorf("insert: %v", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("expected exactly one insert to win, got %d", created)
	}
	if n, _ := CountTags(ctx, db); n != 1 {
		t.Fatalf("expected one row, got %d", n)
	}
}

func TestSampleTags_Bounds(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	// Empty table → empty, not nil, no error.
	got, err := SampleTags(ctx, db, 10)
	if err != nil {
		t.Fatalf("SampleTags empty: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	for i := 0; i < 5; i++ {
		_, _ = InsertTagIfAbsent(ctx, db, fmt.Sprintf("t%d", i), fixedTime)
	}

	got, err = SampleTags(ctx, db, 10)
	if err != nil {
		t.Fatalf("SampleTags: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Fatalf("sample returned %q twice", s)
		}
		seen[s] = true
	}

	got, _ = SampleTags(ctx, db, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}

	got, err = SampleTags(ctx, db, 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("n=0 should be empty: %v %v", got, err)
	}
}

func TestListAllTags_NewestFirst(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	_, _ = InsertTagIfAbsent(ctx, db, "old", fixedTime)
	_, _ = InsertTagIfAbsent(ctx, db, "new", fixedTime.Add(24*time.Hour))
	_, _ = InsertTagIfAbsent(ctx, db, "mid", fixedTime.Add(time.Hour))
	// Same timestamp as "old": id breaks the tie, later insert first.
	_, _ = InsertTagIfAbsent(ctx, db, "old2", fixedTime)

	tags, err := ListAllTags(ctx, db)
	if err != nil {
		t.Fatalf("ListAllTags: %v", err)
	}
	want := []string{"new", "mid", "old2", "old"}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %d", len(want), len(tags))
	}
	for i, w := range want {
		if tags[i].Text != w {
			t.Fatalf("position %d: got %q want %q", i, tags[i].Text, w)
		}
	}
}
