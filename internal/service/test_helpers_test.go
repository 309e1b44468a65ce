package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rithankoushik/fitz-cli/internal/db"
)

// newTestDB returns a migrated database in a temp dir, closed when t ends.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqldb, err := db.OpenMigrated(context.Background(), filepath.Join(t.TempDir(), "fitz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}
