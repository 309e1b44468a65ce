// Package db opens fitz's local SQLite state: session, goals and the search cache.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/rithankoushik/fitz-cli/internal/app"
)

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
}

// Open connects to the database at path, creating the file if needed.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Pragmas are per connection.
	conn.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s on %s: %w", strings.ToLower(p), path, err)
		}
	}
	return conn, nil
}

// OpenMigrated prepares path's directory, opens the database and brings the schema up to date.
func OpenMigrated(ctx context.Context, path string) (*sql.DB, error) {
	if err := app.PrepareDir(path); err != nil {
		return nil, err
	}
	conn, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
