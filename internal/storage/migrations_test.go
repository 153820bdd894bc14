package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:", DefaultStartingBalance)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, store.Migrate(ctx))

	version, err = store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Re-running is a no-op.
	require.NoError(t, store.Migrate(ctx))

	version, err = store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_SchemaUsable(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	// Both tables and their indexes exist and accept writes.
	account, err := store.GetOrCreateAccount(ctx, "user-1", "")
	require.NoError(t, err)

	txn := makeTransaction(t, "user-1", account.ID, nil)
	_, err = store.InsertTransaction(ctx, txn)
	require.NoError(t, err)

	transactions, err := store.ListTransactions(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}
