package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/capling-app/capling/internal/model"
)

const transactionColumns = `id, user_id, account_id, merchant, amount, category,
	classification, original_classification, final_classification,
	reflection, improvement_suggestion, justification, justification_status,
	description, type, timestamp, created_at, updated_at`

// InsertTransaction persists a new transaction row.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}
	return s.insertTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) insertTransactionTx(ctx context.Context, q querier, txn *model.Transaction) (*model.Transaction, error) {
	now := time.Now().UTC()
	stored := *txn
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.UserID,
		stored.AccountID,
		stored.Merchant,
		stored.Amount,
		string(stored.Category),
		string(stored.Classification),
		string(stored.OriginalClassification),
		string(stored.FinalClassification),
		nullable(stored.Reflection),
		nullable(stored.ImprovementSuggestion),
		nullable(stored.Justification),
		string(stored.JustificationStatus),
		nullable(stored.Description),
		string(stored.Type),
		stored.Timestamp,
		stored.CreatedAt,
		stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction %s: %w", stored.ID, err)
	}

	return &stored, nil
}

// GetTransactionByID fetches a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getTransactionByIDTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getTransactionByIDTx(ctx context.Context, q querier, id string) (*model.Transaction, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransactionRow(row)
}

// ListTransactions returns a user's most recent transactions, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.listTransactionsTx(ctx, s.db, userID, limit)
}

func (s *SQLiteStorage) listTransactionsTx(ctx context.Context, q querier, userID string, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// UpdateJustification records the outcome of a justification review. The
// justification fields are written exactly once, by this method.
func (s *SQLiteStorage) UpdateJustification(ctx context.Context, txnID string, status model.JustificationStatus, justification, reflection string, final model.Classification) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(txnID, "txnID"); err != nil {
		return nil, err
	}
	return s.updateJustificationTx(ctx, s.db, txnID, status, justification, reflection, final)
}

func (s *SQLiteStorage) updateJustificationTx(ctx context.Context, q querier, txnID string, status model.JustificationStatus, justification, reflection string, final model.Classification) (*model.Transaction, error) {
	result, err := q.ExecContext(ctx, `
		UPDATE transactions
		SET justification_status = ?, justification = ?, reflection = ?,
			final_classification = ?, updated_at = ?
		WHERE id = ?`,
		string(status), justification, reflection, string(final), time.Now().UTC(), txnID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update justification for %s: %w", txnID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check justification update: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}

	return s.getTransactionByIDTx(ctx, q, txnID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionRow(row *sql.Row) (*model.Transaction, error) {
	return scanTransaction(row)
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var reflection, improvement, justification, description sql.NullString

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.AccountID,
		&txn.Merchant,
		&txn.Amount,
		&txn.Category,
		&txn.Classification,
		&txn.OriginalClassification,
		&txn.FinalClassification,
		&reflection,
		&improvement,
		&justification,
		&txn.JustificationStatus,
		&description,
		&txn.Type,
		&txn.Timestamp,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Reflection = reflection.String
	txn.ImprovementSuggestion = improvement.String
	txn.Justification = justification.String
	txn.Description = description.String
	return &txn, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
