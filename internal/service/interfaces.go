// Package service defines the interfaces the engine's collaborators satisfy.
package service

import (
	"context"
	"time"

	"github.com/capling-app/capling/internal/model"
)

// LedgerStore is the persistence contract the engine depends on. The engine
// only requires atomic-per-row create/update and read-your-writes on the
// account it just touched.
type LedgerStore interface {
	// GetOrCreateAccount resolves the account for a user, creating a default
	// account with the fixed starting balance when none exists. Idempotent
	// across calls for the same user.
	GetOrCreateAccount(ctx context.Context, userID, accountID string) (*model.Account, error)

	InsertTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	UpdateBalance(ctx context.Context, accountID string, newBalance float64) error

	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	// ListTransactions returns the most recent transactions for a user,
	// newest first.
	ListTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error)
	// UpdateJustification records the outcome of a justification review.
	UpdateJustification(ctx context.Context, txnID string, status model.JustificationStatus, justification, reflection string, final model.Classification) (*model.Transaction, error)

	// BeginTx starts a store transaction so the ledger insert and the balance
	// update commit as a single atomic unit.
	BeginTx(ctx context.Context) (Tx, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Tx is a store transaction. It exposes the LedgerStore operations scoped to
// the transaction plus commit/rollback.
type Tx interface {
	LedgerStore
	Commit() error
	Rollback() error
}

// AnalyzeRequest carries everything the reasoner sees about a spend.
type AnalyzeRequest struct {
	Merchant    string
	Description string
	Amount      float64
	Balance     float64
}

// JustificationRequest asks the reasoner to judge a user's explanation for a
// flagged transaction.
type JustificationRequest struct {
	Merchant      string
	Justification string
	Amount        float64
	Category      model.Category
}

// JustificationVerdict is the reasoner's judgment of a justification.
type JustificationVerdict struct {
	Reasoning     string
	NewReflection string
	Valid         bool
}

// Reasoner wraps the external reasoning service. Failures are recovered by
// the caller; the reasoner itself does not retry.
type Reasoner interface {
	AnalyzeTransaction(ctx context.Context, req AnalyzeRequest) (model.Analysis, error)
	EvaluateJustification(ctx context.Context, req JustificationRequest) (JustificationVerdict, error)
}

// RetryOptions configures retry behavior for idempotent operations.
type RetryOptions struct {
	MaxAttempts int
	Delay       time.Duration
}
