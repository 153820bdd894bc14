package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
)

// JustificationResult is the outcome of evaluating a user's justification
// for a flagged transaction.
type JustificationResult struct {
	Transaction      *model.Transaction `json:"transaction"`
	Reasoning        string             `json:"reasoning"`
	BudgetAdjustment *BudgetAdjustment  `json:"budgetAdjustment,omitempty"`
	Accepted         bool               `json:"accepted"`
}

// BudgetAdjustment reports whether accepting a justification changed the
// weekly budget. Acceptance is informational only, so Adjusted is always
// false; the field exists so clients can surface the explanation.
type BudgetAdjustment struct {
	Reason   string `json:"reason"`
	Adjusted bool   `json:"adjusted"`
}

// Justify evaluates a user's justification for a pending transaction. An
// accepted justification upgrades the final classification to responsible;
// a rejected one leaves the original verdict standing. Either way the
// transaction leaves the pending state and cannot be justified again.
func (p *Processor) Justify(ctx context.Context, transactionID, justification string) (*JustificationResult, error) {
	justification = strings.TrimSpace(justification)
	if justification == "" {
		return nil, common.NewValidationError("justification is required")
	}
	if len(justification) > MaxJustificationLength {
		return nil, common.NewValidationErrorf("justification must be at most %d characters", MaxJustificationLength)
	}

	txn, err := p.store.GetTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFoundError("transaction")
		}
		return nil, common.NewDatabaseError("failed to fetch transaction", err)
	}

	if txn.JustificationStatus != model.JustificationPending {
		return nil, common.NewConflictError("transaction does not have a pending justification")
	}

	verdict := p.evaluate(ctx, txn, justification)

	status := model.JustificationRejected
	final := txn.OriginalClassification
	if verdict.Valid {
		status = model.JustificationJustified
		final = model.ClassificationResponsible
	}

	updated, err := p.store.UpdateJustification(ctx, txn.ID, status, justification, verdict.NewReflection, final)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFoundError("transaction")
		}
		return nil, common.NewDatabaseError("failed to record justification", err)
	}

	result := &JustificationResult{
		Transaction: updated,
		Accepted:    verdict.Valid,
		Reasoning:   verdict.Reasoning,
	}
	if verdict.Valid {
		result.BudgetAdjustment = &BudgetAdjustment{
			Adjusted: false,
			Reason:   "Justified purchases do not change the weekly budget, but they no longer count against your responsibility score.",
		}
	}

	p.logger.Info("justification evaluated",
		"transaction_id", txn.ID,
		"accepted", verdict.Valid,
		"status", status)

	return result, nil
}

// evaluate asks the reasoner to judge the justification, degrading to a
// deterministic keyword heuristic if the reasoner is unavailable.
func (p *Processor) evaluate(ctx context.Context, txn *model.Transaction, justification string) service.JustificationVerdict {
	verdict, err := p.reasoner.EvaluateJustification(ctx, service.JustificationRequest{
		Merchant:      txn.Merchant,
		Amount:        txn.Amount,
		Category:      txn.Category,
		Justification: justification,
	})
	if err != nil {
		p.logger.Warn("reasoner unavailable, using heuristic justification verdict",
			"transaction_id", txn.ID,
			"error", err)
		return heuristicVerdict(txn, justification)
	}
	return verdict
}

// acceptKeywords mark a justification as plausibly need-based when the
// reasoner cannot be consulted.
var acceptKeywords = []string{
	"need", "work", "school", "medical", "health", "doctor",
	"repair", "broken", "required", "emergency", "family", "gift",
}

func heuristicVerdict(txn *model.Transaction, justification string) service.JustificationVerdict {
	lower := strings.ToLower(justification)
	for _, kw := range acceptKeywords {
		if strings.Contains(lower, kw) {
			return service.JustificationVerdict{
				Valid:         true,
				Reasoning:     "Accepted: the explanation describes a genuine need.",
				NewReflection: "Good call explaining this purchase. It sounds like it served a real need.",
			}
		}
	}
	return service.JustificationVerdict{
		Valid:         false,
		Reasoning:     "Rejected: the explanation does not describe a clear need for this purchase.",
		NewReflection: txn.Reflection,
	}
}
