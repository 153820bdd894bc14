// Package testutil provides shared test helpers: in-memory databases with
// automatic migration and cleanup.
package testutil

import (
	"context"
	"testing"

	"github.com/capling-app/capling/internal/service"
	"github.com/capling-app/capling/internal/storage"
)

// SetupTestDB creates a new in-memory ledger store. It runs migrations and
// registers cleanup automatically.
func SetupTestDB(t *testing.T) service.LedgerStore {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:", storage.DefaultStartingBalance)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
