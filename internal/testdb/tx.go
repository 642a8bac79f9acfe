package testdb

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, conn *pgx.Conn, fn func(t *testing.T, tx pgx.Tx)) {
	t.Helper()

	ctx := context.Background()

	tx, err := conn.Begin(ctx)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		// ErrTxClosed is expected if fn already committed or rolled back.
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
