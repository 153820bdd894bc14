package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
)

// clientFunc adapts a function to the Client interface.
type clientFunc func(ctx context.Context, systemPrompt, prompt string) (string, error)

func (f clientFunc) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	return f(ctx, systemPrompt, prompt)
}

func newTestAnalyzer(client Client) *Analyzer {
	analyzer, _ := New(Config{APIKey: "test-key"}, nil)
	analyzer.client = client
	return analyzer
}

func TestAnalyzer_AnalyzeTransaction(t *testing.T) {
	t.Run("parses a valid verdict", func(t *testing.T) {
		var capturedPrompt string
		analyzer := newTestAnalyzer(clientFunc(func(_ context.Context, _, prompt string) (string, error) {
			capturedPrompt = prompt
			return `{"classification": "responsible", "reflection": "Good choice!", "confidence": 0.9, "reasoning": "A need."}`, nil
		}))

		analysis, err := analyzer.AnalyzeTransaction(context.Background(), service.AnalyzeRequest{
			Merchant: "Corner Grocery",
			Amount:   23.50,
			Balance:  976.50,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ClassificationResponsible, analysis.Classification)
		assert.Equal(t, "Good choice!", analysis.Reflection)

		assert.Contains(t, capturedPrompt, "Corner Grocery")
		assert.Contains(t, capturedPrompt, "$23.50")
		assert.Contains(t, capturedPrompt, "$976.50")
	})

	t.Run("propagates client failures", func(t *testing.T) {
		analyzer := newTestAnalyzer(clientFunc(func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("connection refused")
		}))

		_, err := analyzer.AnalyzeTransaction(context.Background(), service.AnalyzeRequest{Merchant: "X", Amount: 1})
		assert.Error(t, err)
	})

	t.Run("propagates unparseable output", func(t *testing.T) {
		analyzer := newTestAnalyzer(clientFunc(func(_ context.Context, _, _ string) (string, error) {
			return "definitely fine", nil
		}))

		_, err := analyzer.AnalyzeTransaction(context.Background(), service.AnalyzeRequest{Merchant: "X", Amount: 1})
		assert.Error(t, err)
	})
}

func TestAnalyzer_EvaluateJustification(t *testing.T) {
	analyzer := newTestAnalyzer(clientFunc(func(_ context.Context, _, prompt string) (string, error) {
		assert.Contains(t, prompt, "needed it for work")
		return `{"is_valid": true, "reasoning": "A work need.", "new_reflection": "Understood, a work purchase."}`, nil
	}))

	verdict, err := analyzer.EvaluateJustification(context.Background(), service.JustificationRequest{
		Merchant:      "Tech Store",
		Amount:        250,
		Category:      model.CategoryShopping,
		Justification: "needed it for work",
	})
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Equal(t, "Understood, a work purchase.", verdict.NewReflection)
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: "llama-at-home", APIKey: "k"}, nil)
	assert.Error(t, err)
}
