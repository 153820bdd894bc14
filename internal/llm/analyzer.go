package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
)

const analyzeSystemPrompt = "You are a financial responsibility coach for young adults. " +
	"You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, " +
	"markdown formatting, or commentary before or after the JSON. " +
	"Start your response directly with { and end with }."

// Analyzer implements service.Reasoner on top of an LLM provider. Each call
// is bounded by the configured timeout; failures and unparseable output are
// returned as errors for the caller to recover from. No retries happen here.
type Analyzer struct {
	client  Client
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a reasoner for the configured provider.
func New(cfg Config, logger *slog.Logger) (*Analyzer, error) {
	var client Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		client, err = newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// AnalyzeTransaction asks the reasoner to classify one spend.
func (a *Analyzer) AnalyzeTransaction(ctx context.Context, req service.AnalyzeRequest) (model.Analysis, error) {
	prompt := buildAnalyzePrompt(req)

	var content string
	err := common.WithTimeout(ctx, a.timeout, "analysis timed out", func(ctx context.Context) error {
		var completeErr error
		content, completeErr = a.client.Complete(ctx, analyzeSystemPrompt, prompt)
		return completeErr
	})
	if err != nil {
		return model.Analysis{}, fmt.Errorf("analysis request failed: %w", err)
	}

	analysis, err := parseAnalysis(content)
	if err != nil {
		a.logger.Warn("unparseable analysis from reasoner",
			"merchant", req.Merchant,
			"error", err)
		return model.Analysis{}, err
	}

	a.logger.Info("transaction analyzed",
		"merchant", req.Merchant,
		"amount", req.Amount,
		"classification", analysis.Classification,
		"confidence", analysis.Confidence)

	return analysis, nil
}

// EvaluateJustification asks the reasoner to judge a user's explanation for a
// flagged transaction.
func (a *Analyzer) EvaluateJustification(ctx context.Context, req service.JustificationRequest) (service.JustificationVerdict, error) {
	prompt := buildJustificationPrompt(req)

	var content string
	err := common.WithTimeout(ctx, a.timeout, "justification review timed out", func(ctx context.Context) error {
		var completeErr error
		content, completeErr = a.client.Complete(ctx, analyzeSystemPrompt, prompt)
		return completeErr
	})
	if err != nil {
		return service.JustificationVerdict{}, fmt.Errorf("justification request failed: %w", err)
	}

	verdict, err := parseJustificationVerdict(content)
	if err != nil {
		a.logger.Warn("unparseable justification verdict from reasoner",
			"merchant", req.Merchant,
			"error", err)
		return service.JustificationVerdict{}, err
	}

	a.logger.Info("justification evaluated",
		"merchant", req.Merchant,
		"valid", verdict.Valid)

	return verdict, nil
}

// buildAnalyzePrompt creates the prompt for spend classification.
func buildAnalyzePrompt(req service.AnalyzeRequest) string {
	description := req.Description
	if description == "" {
		description = req.Merchant
	}

	return fmt.Sprintf(`Classify this purchase as financially "responsible", "irresponsible", or "neutral" for a young adult learning money habits.

Purchase Details:
Merchant: %s
Amount: $%.2f
Description: %s
Current Account Balance: $%.2f

Consider affordability relative to the balance, whether the purchase looks like a need or a want, and its size.

Respond with a JSON object in exactly this shape:
{
  "classification": "responsible|irresponsible|neutral",
  "reflection": "<one encouraging sentence about this purchase, addressed to the user>",
  "confidence": <0.0-1.0>,
  "reasoning": "<brief explanation of the verdict>",
  "improvement_suggestion": "<optional concrete tip, or null>"
}`,
		req.Merchant,
		req.Amount,
		description,
		req.Balance)
}

// buildJustificationPrompt creates the prompt for justification review.
func buildJustificationPrompt(req service.JustificationRequest) string {
	return fmt.Sprintf(`A user's purchase was flagged for review and they have explained it. Decide whether the explanation makes the purchase reasonable.

Purchase:
Merchant: %s
Amount: $%.2f
Category: %s

User's explanation:
%s

A valid explanation names a concrete need, obligation, or planned decision. Vague or impulsive explanations are not valid.

Respond with a JSON object in exactly this shape:
{
  "is_valid": <true|false>,
  "reasoning": "<brief explanation of the judgment>",
  "new_reflection": "<one sentence reflecting the updated view of this purchase>"
}`,
		req.Merchant,
		req.Amount,
		req.Category,
		req.Justification)
}
