package services

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"spendlens/backend/migrations"
)

// newTestDB opens an in-memory database with the full schema. Pool size is
// pinned to one connection because every sqlite :memory: connection gets
// its own database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrations.CreateBaseSchema(db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
