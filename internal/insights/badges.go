package insights

import "github.com/capling-app/capling/internal/model"

// badgeRule pairs a badge definition with its earning condition.
type badgeRule struct {
	condition func(Stats) bool
	badge     model.Badge
}

// badgeRules is the fixed, ordered badge table. Conditions are pure
// predicates over Stats so evaluation stays idempotent.
var badgeRules = []badgeRule{
	{
		badge: model.Badge{
			ID:          "first-transaction",
			Title:       "Getting Started",
			Description: "Made your first transaction",
			Emoji:       "🎯",
			Category:    model.BadgeCategoryMilestone,
		},
		condition: func(s Stats) bool { return s.TotalCount >= 1 },
	},
	{
		badge: model.Badge{
			ID:          "smart-spender",
			Title:       "Smart Spender",
			Description: "Stayed under budget for a week",
			Emoji:       "💰",
			Category:    model.BadgeCategorySpending,
		},
		condition: func(s Stats) bool { return s.WeeklySpending <= s.WeeklyBudget },
	},
	{
		badge: model.Badge{
			ID:          "coffee-lover",
			Title:       "Coffee Lover",
			Description: "Made 5+ coffee purchases",
			Emoji:       "☕",
			Category:    model.BadgeCategorySpending,
		},
		condition: func(s Stats) bool { return s.CoffeeCount >= 5 },
	},
	{
		badge: model.Badge{
			ID:          "responsible-shopper",
			Title:       "Responsible Shopper",
			Description: "Made 10+ responsible purchases",
			Emoji:       "🛡️",
			Category:    model.BadgeCategorySpending,
		},
		condition: func(s Stats) bool { return s.ResponsibleCount >= 10 },
	},
	{
		badge: model.Badge{
			ID:          "account-builder",
			Title:       "Account Builder",
			Description: "Built your account balance to $1000+",
			Emoji:       "🏦",
			Category:    model.BadgeCategorySaving,
		},
		condition: func(s Stats) bool { return s.Balance >= 1000 },
	},
	{
		badge: model.Badge{
			ID:          "transaction-tracker",
			Title:       "Transaction Tracker",
			Description: "Tracked 25+ transactions",
			Emoji:       "📊",
			Category:    model.BadgeCategoryMilestone,
		},
		condition: func(s Stats) bool { return s.TotalCount >= 25 },
	},
	{
		badge: model.Badge{
			ID:          "budget-master",
			Title:       "Budget Master",
			Description: "Mastered your budget management",
			Emoji:       "👑",
			Category:    model.BadgeCategorySpending,
		},
		condition: func(s Stats) bool { return s.TotalCount >= 20 && s.WeeklySpending <= s.WeeklyBudget },
	},
	{
		badge: model.Badge{
			ID:          "goal-crusher",
			Title:       "Goal Crusher",
			Description: "Making progress toward your goals",
			Emoji:       "🎯",
			Category:    model.BadgeCategorySaving,
		},
		condition: func(s Stats) bool { return s.TotalCount >= 15 },
	},
}

// EvaluateBadges returns the full badge table with the Earned flag set per
// the supplied stats. The output order is fixed.
func EvaluateBadges(stats Stats) []model.Badge {
	badges := make([]model.Badge, 0, len(badgeRules))
	for _, rule := range badgeRules {
		badge := rule.badge
		badge.Earned = rule.condition(stats)
		badges = append(badges, badge)
	}
	return badges
}
