package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE users(id INTEGER PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations")
	if rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}

	if !tableExists(t, db, "users") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE users(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("apply initial migrations: %v", err)
	}
	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("re-apply migrations should be idempotent: %v", err)
	}

	rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations")
	if rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyMigrationsAppliesInLexicalOrder(t *testing.T) {
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"0002_scores.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE scores(user_id INTEGER NOT NULL REFERENCES users(id));"),
		},
		"0001_users.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE users(id INTEGER PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if !tableExists(t, db, "scores") {
		t.Fatal("expected dependent table to exist")
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openTestDB(t)

	bad := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT table things(id INT);"),
		},
	}
	if err := ApplyMigrations(db, bad); err == nil {
		t.Fatalf("expected bad migration to fail")
	}

	rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations")
	if rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}

	good := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE things(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, good); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}

	rows = queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations")
	if rows != 1 {
		t.Fatalf("expected fixed migration to be recorded, got %d rows", rows)
	}
}

func TestApplyMigrationsTreatsExistingTablesAsSuccess(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Exec("CREATE TABLE users(id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("pre-create table: %v", err)
	}

	migrations := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE users(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("expected pre-existing table to be adopted, got %v", err)
	}
}

func TestExtractUpMigrationStripsDownSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id INTEGER);\n-- +migrate Down\nDROP TABLE a;"
	up := ExtractUpMigration(content)
	if want := "\nCREATE TABLE a(id INTEGER);\n"; up != want {
		t.Fatalf("up section = %q, want %q", up, want)
	}
}

// A file-backed database keeps state visible across pooled connections,
// unlike a plain :memory: DSN where each connection is its own database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("lookup table %q: %v", name, err)
	}
	return true
}
