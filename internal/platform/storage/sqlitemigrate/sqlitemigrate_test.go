package sqlitemigrate

import (
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func migrationFS(name, sqlText string) fstest.MapFS {
	return fstest.MapFS{
		name: &fstest.MapFile{Data: []byte("-- +migrate Up\n" + sqlText)},
	}
}

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openMemoryDB(t)

	fsys := migrationFS("001_create.sql", "CREATE TABLE items(id TEXT PRIMARY KEY);")
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
	if !tableExists(t, db, "items") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openMemoryDB(t)

	fsys := migrationFS("001_create.sql", "CREATE TABLE items(id TEXT PRIMARY KEY);")
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("re-apply migrations should be idempotent: %v", err)
	}

	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("migration rows after replay = %d, want 1", got)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openMemoryDB(t)

	bad := migrationFS("001_bad.sql", "CREAT table things(id INT);")
	if err := ApplyMigrations(db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countMigrations(t, db); got != 0 {
		t.Fatalf("failed migration rows = %d, want 0", got)
	}

	good := migrationFS("001_bad.sql", "CREATE TABLE things(id INTEGER PRIMARY KEY);")
	if err := ApplyMigrations(db, good, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("fixed migration rows = %d, want 1", got)
	}
}

func TestApplyMigrationsRespectsMigrationRoot(t *testing.T) {
	db := openMemoryDB(t)

	fsys := migrationFS("events/001_events.sql", "CREATE TABLE event_rows(id TEXT PRIMARY KEY);")
	if err := ApplyMigrations(db, fsys, "events"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	var key string
	if err := db.QueryRow("SELECT name FROM schema_migrations LIMIT 1").Scan(&key); err != nil {
		t.Fatalf("query migration key: %v", err)
	}
	if key != "events/001_events.sql" {
		t.Fatalf("migration key = %q, want %q", key, "events/001_events.sql")
	}
	if !tableExists(t, db, "event_rows") {
		t.Fatal("expected migrated table in root-based migration")
	}
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	content := "-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;\n"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a(id INT);\n" {
		t.Fatalf("up section = %q", up)
	}

	plain := "CREATE TABLE b(id INT);"
	if got := ExtractUpMigration(plain); got != plain {
		t.Fatalf("unmarked content = %q, want passthrough", got)
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	t.Parallel()

	if !IsAlreadyExistsError(errors.New("table items already exists")) {
		t.Fatal("expected already-exists error to match")
	}
	if IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("expected unrelated error not to match")
	}
	if IsAlreadyExistsError(nil) {
		t.Fatal("expected nil error not to match")
	}
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func countMigrations(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&value); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
