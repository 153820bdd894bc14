package model

// BadgeCategory groups badges for display purposes.
type BadgeCategory string

// Badge categories.
const (
	BadgeCategorySpending  BadgeCategory = "spending"
	BadgeCategorySaving    BadgeCategory = "saving"
	BadgeCategoryStreak    BadgeCategory = "streak"
	BadgeCategoryMilestone BadgeCategory = "milestone"
)

// Badge is a static badge definition paired at evaluation time with whether
// the user has earned it. Earned state is recomputed on demand, not stored.
type Badge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Emoji       string        `json:"emoji"`
	Category    BadgeCategory `json:"category"`
	Earned      bool          `json:"earned"`
}
