package insights

import (
	"strings"
	"time"

	"github.com/capling-app/capling/internal/model"
)

// recentWindow is the trailing window the mood and spending stats consider.
const recentWindow = 7 * 24 * time.Hour

// Stats is the aggregated view of a user's ledger that mood and badge
// evaluation run over.
type Stats struct {
	Balance             float64
	WeeklyBudget        float64
	WeeklySpending      float64
	TotalCount          int
	ResponsibleCount    int
	CoffeeCount         int
	RecentCount         int
	RecentResponsible   int
	RecentIrresponsible int
	RecentLargeCount    int
}

// coffeeMerchants are substrings that mark a merchant as a coffee purchase.
var coffeeMerchants = []string{"coffee", "starbucks", "dunkin", "cafe", "espresso"}

func isCoffeeMerchant(merchant string) bool {
	lower := strings.ToLower(merchant)
	for _, kw := range coffeeMerchants {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// BuildStats aggregates a transaction window into the signals mood and
// badge evaluation need. Classification counts use the final classification
// so an accepted justification stops counting against the user. The window
// for recency is the trailing seven days ending at now.
func BuildStats(transactions []model.Transaction, balance, weeklyBudget float64, now time.Time, cfg ScoringConfig) Stats {
	cutoff := now.Add(-recentWindow)

	stats := Stats{
		Balance:      balance,
		WeeklyBudget: weeklyBudget,
	}

	for i := range transactions {
		txn := &transactions[i]
		stats.TotalCount++

		isSpend := txn.Type == model.TypeDebit
		responsible := txn.FinalClassification == model.ClassificationResponsible

		if isSpend && responsible {
			stats.ResponsibleCount++
		}
		if isSpend && isCoffeeMerchant(txn.Merchant) {
			stats.CoffeeCount++
		}

		if txn.Timestamp.Before(cutoff) {
			continue
		}

		stats.RecentCount++
		if isSpend {
			stats.WeeklySpending += txn.Amount
		}
		// Large transactions count regardless of direction.
		if txn.Amount > cfg.LargeTransactionAmount {
			stats.RecentLargeCount++
		}
		if responsible {
			stats.RecentResponsible++
		}
		if txn.FinalClassification == model.ClassificationIrresponsible {
			stats.RecentIrresponsible++
		}
	}

	return stats
}

// responsibleRatio is the share of recent transactions classified
// responsible, defaulting to an even 0.5 when the window is empty.
func (s Stats) responsibleRatio() float64 {
	if s.RecentCount == 0 {
		return 0.5
	}
	return float64(s.RecentResponsible) / float64(s.RecentCount)
}

// budgetPercentage is weekly spending as a percentage of the weekly budget.
func (s Stats) budgetPercentage() float64 {
	if s.WeeklyBudget <= 0 {
		return 0
	}
	return s.WeeklySpending / s.WeeklyBudget * 100
}
