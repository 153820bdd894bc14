// Package model defines the core domain types used throughout the application.
package model

import "time"

// Classification is the engine's verdict on a spend transaction's prudence.
type Classification string

// Classification values.
const (
	ClassificationResponsible   Classification = "responsible"
	ClassificationIrresponsible Classification = "irresponsible"
	ClassificationNeutral       Classification = "neutral"
)

// Valid reports whether c is a known classification.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationResponsible, ClassificationIrresponsible, ClassificationNeutral:
		return true
	}
	return false
}

// TransactionType distinguishes money leaving the account from money entering it.
type TransactionType string

// Transaction type values.
const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

// JustificationStatus tracks the review lifecycle of a flagged transaction.
type JustificationStatus string

// Justification status values.
const (
	JustificationNone      JustificationStatus = "none"
	JustificationPending   JustificationStatus = "pending"
	JustificationJustified JustificationStatus = "justified"
	JustificationRejected  JustificationStatus = "rejected"
)

// Category is a fixed spending category chosen by the user at submission time.
type Category string

// Transaction categories.
const (
	CategoryShopping      Category = "shopping"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryBills         Category = "bills"
	CategoryDining        Category = "dining"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryIncome        Category = "income"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryShopping,
	CategoryFood,
	CategoryTransport,
	CategoryBills,
	CategoryDining,
	CategoryEntertainment,
	CategoryHealth,
	CategoryIncome,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction represents a single recorded transaction. The core fields
// (merchant, amount, category, type, timestamp) are immutable once created;
// the justification fields are mutated at most once by the justification
// workflow.
type Transaction struct {
	Timestamp              time.Time           `json:"timestamp"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
	ID                     string              `json:"id"`
	UserID                 string              `json:"user_id"`
	AccountID              string              `json:"account_id"`
	Merchant               string              `json:"merchant"`
	Description            string              `json:"description,omitempty"`
	Reflection             string              `json:"reflection,omitempty"`
	ImprovementSuggestion  string              `json:"improvement_suggestion,omitempty"`
	Justification          string              `json:"justification,omitempty"`
	Category               Category            `json:"category"`
	Classification         Classification      `json:"classification"`
	OriginalClassification Classification      `json:"original_classification"`
	FinalClassification    Classification      `json:"final_classification"`
	JustificationStatus    JustificationStatus `json:"justification_status"`
	Type                   TransactionType     `json:"type"`
	Amount                 float64             `json:"amount"`
}

// IsDeposit reports whether the transaction credited the account.
func (t *Transaction) IsDeposit() bool {
	return t.Type == TypeCredit
}

// SignedDelta returns the balance change this transaction applied:
// positive for credits, negative for debits.
func (t *Transaction) SignedDelta() float64 {
	if t.Type == TypeCredit {
		return t.Amount
	}
	return -t.Amount
}
