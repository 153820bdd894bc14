// Package insights derives behavioral signals from ledger history: the
// companion mood, earned badges, and level progression. Everything here is
// pure computation over an aggregated transaction window.
package insights

// ScoringConfig holds the tunable thresholds of the mood score. Defaults
// match the published behavior; deployments can override them.
type ScoringConfig struct {
	// HappyThreshold is the minimum score for the happy mood.
	HappyThreshold int
	// NeutralThreshold is the minimum score for the neutral mood.
	NeutralThreshold int
	// WorriedThreshold is the minimum score for the worried mood; scores
	// below it map to sad.
	WorriedThreshold int
	// LargeTransactionAmount is the dollar amount above which a transaction
	// counts toward the large-transaction pattern penalty.
	LargeTransactionAmount float64
}

// DefaultScoringConfig returns the standard thresholds.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		HappyThreshold:         70,
		NeutralThreshold:       45,
		WorriedThreshold:       25,
		LargeTransactionAmount: 100,
	}
}
