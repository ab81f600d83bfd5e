package repository

import (
	"context"
	"testing"

	"github.com/nimasrn/ledger/pkg/db"
	"github.com/stretchr/testify/require"
)

type testDB struct {
	*db.DB
}

// setupTestDB opens a private in-memory sqlite database with the real
// migrations applied.
func setupTestDB(t *testing.T) *testDB {
	t.Helper()

	conn, err := db.Open(db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, conn.Migrate(context.Background()))
	t.Cleanup(func() { _ = conn.Close() })

	return &testDB{DB: conn}
}
