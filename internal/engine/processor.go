// Package engine implements the transaction processing and behavioral
// scoring core: validation, classification orchestration, ledger mutation,
// and the justification workflow.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
)

// Validation limits.
const (
	MaxMerchantLength      = 100
	MaxDescriptionLength   = 500
	MaxJustificationLength = 1000
)

// Config holds configuration options for the processor.
type Config struct {
	MinAmount float64
	MaxAmount float64
}

// DefaultConfig returns the default processor configuration.
func DefaultConfig() Config {
	return Config{
		MinAmount: 0.01,
		MaxAmount: 10000.0,
	}
}

// Processor orchestrates transaction submission: validate, branch deposit
// vs. spend, classify, persist, and update the account balance.
type Processor struct {
	store    service.LedgerStore
	reasoner service.Reasoner
	locks    *accountLocks
	logger   *slog.Logger
	cfg      Config
}

// New creates a processor with the default configuration.
func New(store service.LedgerStore, reasoner service.Reasoner, logger *slog.Logger) *Processor {
	return NewWithConfig(store, reasoner, logger, DefaultConfig())
}

// NewWithConfig creates a processor with custom configuration.
func NewWithConfig(store service.LedgerStore, reasoner service.Reasoner, logger *slog.Logger, cfg Config) *Processor {
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = 0.01
	}
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = 10000.0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:    store,
		reasoner: reasoner,
		locks:    newAccountLocks(),
		logger:   logger,
		cfg:      cfg,
	}
}

// Request is one transaction submission. A negative amount is a deposit
// (credit); a positive amount is a spend (debit).
type Request struct {
	Timestamp   time.Time
	UserID      string
	AccountID   string
	Merchant    string
	Description string
	Category    model.Category
	Amount      float64
}

// Response is the result of a processed submission.
type Response struct {
	Transaction              *model.Transaction `json:"transaction"`
	Analysis                 model.Analysis     `json:"analysis"`
	NewBalance               float64            `json:"newBalance"`
	ShouldShowGoalAllocation bool               `json:"shouldShowGoalAllocation"`
}

// Process runs one submission end to end. Validation failures abort before
// any side effect; reasoner failures degrade to the fallback verdict; the
// ledger insert and the balance update commit as a single atomic unit.
func (p *Processor) Process(ctx context.Context, req Request) (*Response, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	// Serialize submissions per account so concurrent requests cannot
	// overwrite each other's balance update.
	unlock := p.locks.acquire(req.UserID + "|" + req.AccountID)
	defer unlock()

	tx, err := p.store.BeginTx(ctx)
	if err != nil {
		return nil, common.NewDatabaseError("failed to begin ledger transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	account, err := tx.GetOrCreateAccount(ctx, req.UserID, req.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFoundError("account")
		}
		return nil, common.NewDatabaseError("failed to resolve account", err)
	}

	isDeposit := req.Amount < 0
	amount := math.Abs(req.Amount)
	txnType := model.TypeDebit
	if isDeposit {
		txnType = model.TypeCredit
	}

	analysis := p.classify(ctx, req, account.Balance, isDeposit, amount)

	needsJustification := !isDeposit &&
		(analysis.Classification == model.ClassificationIrresponsible ||
			analysis.Classification == model.ClassificationNeutral)
	justificationStatus := model.JustificationNone
	if needsJustification {
		justificationStatus = model.JustificationPending
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	description := req.Description
	if description == "" {
		description = req.Merchant
	}

	txn := &model.Transaction{
		ID:                     uuid.NewString(),
		UserID:                 req.UserID,
		AccountID:              account.ID,
		Merchant:               req.Merchant,
		Amount:                 amount,
		Category:               req.Category,
		Classification:         analysis.Classification,
		OriginalClassification: analysis.Classification,
		FinalClassification:    analysis.Classification,
		Reflection:             analysis.Reflection,
		ImprovementSuggestion:  analysis.ImprovementSuggestion,
		JustificationStatus:    justificationStatus,
		Description:            description,
		Type:                   txnType,
		Timestamp:              timestamp,
	}

	stored, err := tx.InsertTransaction(ctx, txn)
	if err != nil {
		return nil, common.NewDatabaseError("failed to create transaction", err)
	}

	newBalance := account.Balance + stored.SignedDelta()
	if err := tx.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, common.NewDatabaseError("failed to update account balance", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewDatabaseError("failed to commit ledger transaction", err)
	}

	p.logger.Info("transaction processed",
		"transaction_id", stored.ID,
		"user_id", req.UserID,
		"merchant", req.Merchant,
		"type", txnType,
		"amount", amount,
		"classification", analysis.Classification,
		"new_balance", newBalance)

	return &Response{
		Transaction:              stored,
		NewBalance:               newBalance,
		Analysis:                 analysis,
		ShouldShowGoalAllocation: amount > 0 && analysis.Classification == model.ClassificationIrresponsible,
	}, nil
}

// classify obtains the verdict for a submission. Deposits get the fixed
// responsible verdict without consulting the reasoner; spends fall back to
// the neutral verdict on any reasoner failure so a submission is never
// blocked by the classifier.
func (p *Processor) classify(ctx context.Context, req Request, balance float64, isDeposit bool, amount float64) model.Analysis {
	if isDeposit {
		return model.DepositAnalysis()
	}

	analysis, err := p.reasoner.AnalyzeTransaction(ctx, service.AnalyzeRequest{
		Merchant:    req.Merchant,
		Amount:      amount,
		Description: req.Description,
		Balance:     balance,
	})
	if err != nil {
		p.logger.Warn("reasoner unavailable, using fallback verdict",
			"merchant", req.Merchant,
			"amount", amount,
			"error", err)
		return model.FallbackAnalysis()
	}

	return analysis
}

// List returns the most recent transactions for a user, newest first.
func (p *Processor) List(ctx context.Context, userID string, limit int) ([]model.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, common.NewAuthenticationError("valid user ID is required")
	}
	if limit <= 0 {
		limit = 10
	}

	transactions, err := p.store.ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, common.NewDatabaseError("failed to fetch transactions", err)
	}
	return transactions, nil
}

func (p *Processor) validate(req Request) error {
	if strings.TrimSpace(req.UserID) == "" {
		return common.NewAuthenticationError("valid user ID is required")
	}

	merchant := strings.TrimSpace(req.Merchant)
	if merchant == "" {
		return common.NewValidationError("merchant is required")
	}
	if len(merchant) > MaxMerchantLength {
		return common.NewValidationErrorf("merchant must be at most %d characters", MaxMerchantLength)
	}

	magnitude := math.Abs(req.Amount)
	if magnitude < p.cfg.MinAmount {
		return common.NewValidationErrorf("amount must be at least %.2f", p.cfg.MinAmount)
	}
	if magnitude > p.cfg.MaxAmount {
		return common.NewValidationErrorf("amount must be at most %.2f", p.cfg.MaxAmount)
	}

	if !req.Category.Valid() {
		return common.NewValidationErrorf("invalid transaction category: %q", req.Category)
	}

	if len(req.Description) > MaxDescriptionLength {
		return common.NewValidationErrorf("description must be at most %d characters", MaxDescriptionLength)
	}

	return nil
}
