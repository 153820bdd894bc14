package insights

import "github.com/capling-app/capling/internal/model"

// MoodScorer computes the companion's mood from aggregated ledger stats.
type MoodScorer struct {
	cfg ScoringConfig
}

// NewMoodScorer creates a scorer with the given thresholds.
func NewMoodScorer(cfg ScoringConfig) *MoodScorer {
	return &MoodScorer{cfg: cfg}
}

// Score computes the mood. A negative balance short-circuits to depressed
// regardless of anything else; an empty history is neutral. Otherwise the
// score starts at 50 and moves with budget usage, the responsible-spending
// ratio, and concerning spending patterns.
func (m *MoodScorer) Score(stats Stats) model.MoodResult {
	if stats.TotalCount == 0 {
		return model.MoodResult{Mood: model.MoodNeutral, Score: 50}
	}
	if stats.Balance < 0 {
		return model.MoodResult{Mood: model.MoodDepressed, Score: 0}
	}

	budgetPct := stats.budgetPercentage()
	ratio := stats.responsibleRatio()

	frequentIrresponsible := stats.RecentIrresponsible >= 3
	overBudget := budgetPct > 100
	highIrresponsibleRatio := stats.RecentCount > 0 &&
		float64(stats.RecentIrresponsible)/float64(stats.RecentCount) > 0.6

	score := 50

	switch {
	case budgetPct < 50:
		score += 20
	case budgetPct < 80:
		score += 10
	case budgetPct < 100:
		score -= 10
	default:
		score -= 30
	}

	switch {
	case ratio > 0.7:
		score += 15
	case ratio > 0.5:
		score += 5
	case ratio > 0.3:
		score -= 10
	default:
		score -= 20
	}

	if frequentIrresponsible {
		score -= 15
	}
	if highIrresponsibleRatio {
		score -= 10
	}
	if stats.RecentLargeCount > 2 {
		score -= 10
	}
	if overBudget {
		score -= 15
	}

	mood := model.MoodSad
	switch {
	case score >= m.cfg.HappyThreshold:
		mood = model.MoodHappy
	case score >= m.cfg.NeutralThreshold:
		mood = model.MoodNeutral
	case score >= m.cfg.WorriedThreshold:
		mood = model.MoodWorried
	}

	return model.MoodResult{Mood: mood, Score: score}
}
