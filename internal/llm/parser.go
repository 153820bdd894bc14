package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
)

// cleanMarkdownWrapper strips a markdown code fence some models wrap JSON in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}

// parseAnalysis extracts a classification verdict from the model's response.
// Anything unparseable or out of range is an error; the caller substitutes
// the fallback verdict.
func parseAnalysis(content string) (model.Analysis, error) {
	var jsonResp struct {
		Classification        string  `json:"classification"`
		Reflection            string  `json:"reflection"`
		Reasoning             string  `json:"reasoning"`
		ImprovementSuggestion *string `json:"improvement_suggestion"`
		Confidence            float64 `json:"confidence"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return model.Analysis{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	classification := model.Classification(strings.ToLower(strings.TrimSpace(jsonResp.Classification)))
	if !classification.Valid() {
		return model.Analysis{}, fmt.Errorf("invalid classification in response: %q", jsonResp.Classification)
	}

	confidence := jsonResp.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	analysis := model.Analysis{
		Classification: classification,
		Reflection:     jsonResp.Reflection,
		Reasoning:      jsonResp.Reasoning,
		Confidence:     confidence,
	}
	if jsonResp.ImprovementSuggestion != nil {
		analysis.ImprovementSuggestion = *jsonResp.ImprovementSuggestion
	}
	return analysis, nil
}

// parseJustificationVerdict extracts a justification judgment from the
// model's response.
func parseJustificationVerdict(content string) (service.JustificationVerdict, error) {
	var jsonResp struct {
		Reasoning     string `json:"reasoning"`
		NewReflection string `json:"new_reflection"`
		IsValid       bool   `json:"is_valid"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return service.JustificationVerdict{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if jsonResp.NewReflection == "" {
		return service.JustificationVerdict{}, fmt.Errorf("no reflection found in response")
	}

	return service.JustificationVerdict{
		Valid:         jsonResp.IsValid,
		Reasoning:     jsonResp.Reasoning,
		NewReflection: jsonResp.NewReflection,
	}, nil
}
