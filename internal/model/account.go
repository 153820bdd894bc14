package model

import "time"

// Account holds a user's single mutable balance. The balance equals the fold
// of all committed transactions for the account against its starting balance;
// only the processor and the justification workflow may mutate it.
type Account struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"account_name"`
	Type      string    `json:"account_type"`
	Balance   float64   `json:"balance"`
}
