package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
)

// MockReasoner is a test implementation of the Reasoner interface. It
// returns deterministic verdicts based on merchant name so tests do not
// depend on a live LLM provider.
type MockReasoner struct {
	// AnalyzeErr, when set, makes every AnalyzeTransaction call fail.
	AnalyzeErr error
	// JustifyErr, when set, makes every EvaluateJustification call fail.
	JustifyErr error

	analyzeCalls []service.AnalyzeRequest
	justifyCalls []service.JustificationRequest
	mu           sync.Mutex
}

// NewMockReasoner creates a new mock reasoner.
func NewMockReasoner() *MockReasoner {
	return &MockReasoner{}
}

// AnalyzeTransaction provides deterministic classifications based on
// merchant name patterns.
func (m *MockReasoner) AnalyzeTransaction(_ context.Context, req service.AnalyzeRequest) (model.Analysis, error) {
	m.mu.Lock()
	m.analyzeCalls = append(m.analyzeCalls, req)
	m.mu.Unlock()

	if m.AnalyzeErr != nil {
		return model.Analysis{}, m.AnalyzeErr
	}

	merchantLower := strings.ToLower(req.Merchant)

	switch {
	case strings.Contains(merchantLower, "grocery") || strings.Contains(merchantLower, "pharmacy"):
		return model.Analysis{
			Classification: model.ClassificationResponsible,
			Reflection:     "Essentials like this keep your budget on track.",
			Confidence:     0.9,
		}, nil
	case strings.Contains(merchantLower, "casino") || strings.Contains(merchantLower, "arcade"):
		suggestion := "Set aside fun money in advance so splurges stay planned."
		return model.Analysis{
			Classification:        model.ClassificationIrresponsible,
			Reflection:            "This looks like an impulse spend. Was it planned?",
			ImprovementSuggestion: suggestion,
			Confidence:            0.85,
		}, nil
	default:
		return model.Analysis{
			Classification: model.ClassificationNeutral,
			Reflection:     "A reasonable purchase, though worth a second look.",
			Confidence:     0.6,
		}, nil
	}
}

// EvaluateJustification accepts justifications containing the word "need".
func (m *MockReasoner) EvaluateJustification(_ context.Context, req service.JustificationRequest) (service.JustificationVerdict, error) {
	m.mu.Lock()
	m.justifyCalls = append(m.justifyCalls, req)
	m.mu.Unlock()

	if m.JustifyErr != nil {
		return service.JustificationVerdict{}, m.JustifyErr
	}

	if strings.Contains(strings.ToLower(req.Justification), "need") {
		return service.JustificationVerdict{
			Valid:         true,
			Reasoning:     "The purchase served a genuine need.",
			NewReflection: "Understood - this one was a necessity, not a splurge.",
		}, nil
	}
	return service.JustificationVerdict{
		Valid:         false,
		Reasoning:     "The explanation does not describe a need.",
		NewReflection: "Think about whether this purchase was really necessary.",
	}, nil
}

// AnalyzeCallCount returns the number of AnalyzeTransaction calls.
func (m *MockReasoner) AnalyzeCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.analyzeCalls)
}

// JustifyCallCount returns the number of EvaluateJustification calls.
func (m *MockReasoner) JustifyCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.justifyCalls)
}
