package model

// XPEventType identifies the action that granted an XP reward.
type XPEventType string

// XP event types.
const (
	XPLessonRead          XPEventType = "lesson_read"
	XPResponsiblePurchase XPEventType = "responsible_purchase"
	XPGoalAchieved        XPEventType = "goal_achieved"
	XPDailyBonus          XPEventType = "daily_bonus"
	XPHappinessStreak     XPEventType = "happiness_streak"
)

// LevelInfo is the derived level-progression signal consumed by callers.
type LevelInfo struct {
	Level              int     `json:"level"`
	XP                 int     `json:"xp"`
	TotalXP            int     `json:"total_xp"`
	XPForNextLevel     int     `json:"xp_for_next_level"`
	ProgressPercentage float64 `json:"progress_percentage"`
}
