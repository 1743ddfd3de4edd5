package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/AdamBeresnev/tennis-leagues/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// MigrationsDir locates the repository migrations regardless of the calling package.
func MigrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to locate testutil source")
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// NewDB creates an in-memory SQLite database and applies migrations.
// The pool is pinned to one connection so every query sees the same memory database.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(database.DB, MigrationsDir(t)), "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}
