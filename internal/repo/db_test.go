package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-tag-backend/internal/domain"
)

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_SetsPragmas_Pool_AndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	var (
		journalMode string
		syncVal     int
		busyMS      int
	)
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}
	if err := db.Raw("PRAGMA synchronous;").Row().Scan(&syncVal); err != nil {
		t.Fatalf("PRAGMA synchronous: %v", err)
	}
	if syncVal != 1 {
		t.Fatalf("expected synchronous=1 (NORMAL), got %d", syncVal)
	}
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busyMS != 5000 {
		t.Fatalf("expected busy_timeout=5000, got %d", busyMS)
	}
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 10 {
		t.Fatalf("expected MaxOpenConnections=10, got %d", stats.MaxOpenConnections)
	}

	if err := EnsureSchema(context.Background(), db, domain.ExampleTags); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range []any{&domain.Tag{}, &domain.RateLimitEvent{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&domain.RateLimitEvent{}, "idx_rate_limit_identity") {
		t.Fatalf("expected idx_rate_limit_identity")
	}
}

func TestEnsureSchema_IdempotentSeeding(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := EnsureSchema(ctx, db, domain.ExampleTags); err != nil {
			t.Fatalf("EnsureSchema run %d: %v", i, err)
		}
	}
	n, err := CountTags(ctx, db)
	if err != nil {
		t.Fatalf("CountTags: %v", err)
	}
	if n != int64(len(domain.ExampleTags)) {
		t.Fatalf("expected %d seeded tags, got %d", len(domain.ExampleTags), n)
	}
}

func TestEnsureSchema_NoSeedsOnNonEmptyTable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := EnsureSchema(ctx, db, nil); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := InsertTagIfAbsent(ctx, db, "mine", fixedTime); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := EnsureSchema(ctx, db, domain.ExampleTags); err != nil {
		t.Fatalf("EnsureSchema rerun: %v", err)
	}
	if n, _ := CountTags(ctx, db); n != 1 {
		t.Fatalf("seeds must only land in an empty table; got %d rows", n)
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("app.db")
	if !strings.HasPrefix(got, "app.db?_pragma=journal_mode(WAL)&") {
		t.Fatalf("unexpected dsn %q", got)
	}
	got = withPragmas("file:x?mode=memory")
	if !strings.HasPrefix(got, "file:x?mode=memory&_pragma=") {
		t.Fatalf("unexpected dsn %q", got)
	}
	if strings.Count(got, "_pragma=") != len(sqlitePragmas) {
		t.Fatalf("expected %d pragmas in %q", len(sqlitePragmas), got)
	}
}

// Compile-time guard to ensure signature stability.
var _ func(string) (*gorm.DB, error) = OpenSQLite
