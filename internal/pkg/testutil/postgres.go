// Package testutil provisions throwaway warehouse schemas for integration tests.
// Tests using it are skipped unless TEST_POSTGRES_DSN points at a reachable server.
package testutil

import (
	"context"
	_ "embed"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unidwh/internal/db"
)

// DSNEnv names the variable holding the integration database connection string.
const DSNEnv = "TEST_POSTGRES_DSN"

//go:embed schema.sql
var schemaSQL string

// Warehouse is a freshly created schema with the warehouse tables.
type Warehouse struct {
	DB     *db.PostgresDB
	Schema string
}

// NewWarehouse creates a uniquely named schema holding empty warehouse tables and
// drops it when the test ends.
func NewWarehouse(t *testing.T) *Warehouse {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv(DSNEnv))
	if dsn == "" {
		t.Skipf("%s is not set; skipping postgres integration test", DSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	schema := "dwh_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = pool.Exec(ctx, strings.ReplaceAll(schemaSQL, "__SCHEMA__", schema))
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE")
	})

	return &Warehouse{
		DB:     db.NewFromPool(pool, zerolog.Nop()),
		Schema: schema,
	}
}

// CountRows returns the number of rows in one warehouse table.
func (w *Warehouse) CountRows(t *testing.T, table string) int64 {
	t.Helper()

	var n int64
	err := w.DB.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM "+pgx.Identifier{w.Schema, table}.Sanitize()).Scan(&n)
	require.NoError(t, err)
	return n
}
