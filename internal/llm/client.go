// Package llm implements the reasoning service client used to classify
// transactions and evaluate justifications.
package llm

import (
	"context"
	"time"
)

// Client is the raw completion interface an LLM provider satisfies.
type Client interface {
	// Complete issues one reasoning request and returns the model's text.
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Config holds configuration for the reasoner.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}
