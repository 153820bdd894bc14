package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/capling-app/capling/internal/model"
)

// GetOrCreateAccount resolves the account for a user, creating a default
// checking account with the configured starting balance when none exists.
func (s *SQLiteStorage) GetOrCreateAccount(ctx context.Context, userID, accountID string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.getOrCreateAccountTx(ctx, s.db, userID, accountID)
}

func (s *SQLiteStorage) getOrCreateAccountTx(ctx context.Context, q querier, userID, accountID string) (*model.Account, error) {
	query := `SELECT id, user_id, account_name, account_type, balance, created_at, updated_at
		FROM accounts WHERE user_id = ?`
	args := []any{userID}
	if accountID != "" {
		query += ` AND id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY created_at ASC LIMIT 1`

	account, err := scanAccount(q.QueryRowContext(ctx, query, args...))
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	// A specific account was requested and is absent; do not invent one.
	if accountID != "" {
		return nil, sql.ErrNoRows
	}

	return s.createDefaultAccountTx(ctx, q, userID)
}

func (s *SQLiteStorage) createDefaultAccountTx(ctx context.Context, q querier, userID string) (*model.Account, error) {
	now := time.Now().UTC()
	account := &model.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "Main Checking",
		Type:      "checking",
		Balance:   s.startingBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, account_name, account_type, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.UserID, account.Name, account.Type, account.Balance,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("created default account",
		"user_id", userID,
		"account_id", account.ID,
		"balance", account.Balance)

	return account, nil
}

// UpdateBalance sets the account balance.
func (s *SQLiteStorage) UpdateBalance(ctx context.Context, accountID string, newBalance float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}
	return s.updateBalanceTx(ctx, s.db, accountID, newBalance)
}

func (s *SQLiteStorage) updateBalanceTx(ctx context.Context, q querier, accountID string, newBalance float64) error {
	result, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance = ?, updated_at = ? WHERE id = ?`,
		newBalance, time.Now().UTC(), accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Type,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
