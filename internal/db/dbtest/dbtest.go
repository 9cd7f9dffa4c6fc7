// Package dbtest provides a migrated SQLite database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ieti-edutrack/apiserver/config"
	"github.com/ieti-edutrack/apiserver/internal/db"
	"github.com/jmoiron/sqlx"
)

// Config returns a SQLite configuration rooted in the test's temp dir.
func Config(t testing.TB) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "edutrack.db"),
	}
}

// Open migrates a fresh database and returns a pool that is closed when the
// test finishes.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := Config(t)
	ctx := context.Background()
	if err := db.Migrate(ctx, cfg); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}
