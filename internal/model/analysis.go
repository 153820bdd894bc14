package model

// Analysis is the transient result of classifying one transaction. It is
// produced per submission, folded into the stored transaction, and never
// persisted on its own.
type Analysis struct {
	Classification        Classification `json:"classification"`
	Reflection            string         `json:"reflection"`
	Reasoning             string         `json:"reasoning"`
	ImprovementSuggestion string         `json:"improvement_suggestion,omitempty"`
	Confidence            float64        `json:"confidence"`
}

// DepositAnalysis is the fixed verdict applied to deposits; the reasoner is
// never consulted for credits.
func DepositAnalysis() Analysis {
	return Analysis{
		Classification: ClassificationResponsible,
		Reflection:     "Deposit added to your account",
		Reasoning:      "Deposit transaction",
		Confidence:     1.0,
	}
}

// FallbackAnalysis is the verdict substituted when the reasoner fails or
// times out. Submissions are never blocked by classifier failure.
func FallbackAnalysis() Analysis {
	return Analysis{
		Classification: ClassificationNeutral,
		Reflection:     "Transaction processed - analysis unavailable",
		Reasoning:      "reasoner unavailable",
		Confidence:     0.5,
	}
}
