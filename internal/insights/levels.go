package insights

import "github.com/capling-app/capling/internal/model"

// Level progression constants.
const (
	XPPerLevel = 50
	MaxLevel   = 100
)

// xpRewards maps an XP event to the XP it grants.
var xpRewards = map[model.XPEventType]int{
	model.XPLessonRead:          25,
	model.XPResponsiblePurchase: 15,
	model.XPGoalAchieved:        50,
	model.XPDailyBonus:          5,
	model.XPHappinessStreak:     10,
}

// XPForEvent returns the XP granted by an event, or 0 for unknown events.
func XPForEvent(event model.XPEventType) int {
	return xpRewards[event]
}

// LevelFromXP derives level progression from accumulated XP. Levels start
// at 1, advance every XPPerLevel XP, and cap at MaxLevel; at the cap the
// progress bar reads full.
func LevelFromXP(totalXP int) model.LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := totalXP/XPPerLevel + 1
	if level >= MaxLevel {
		return model.LevelInfo{
			Level:              MaxLevel,
			XP:                 XPPerLevel,
			TotalXP:            totalXP,
			XPForNextLevel:     XPPerLevel,
			ProgressPercentage: 100,
		}
	}

	xpIntoLevel := totalXP % XPPerLevel
	return model.LevelInfo{
		Level:              level,
		XP:                 xpIntoLevel,
		TotalXP:            totalXP,
		XPForNextLevel:     XPPerLevel,
		ProgressPercentage: float64(xpIntoLevel) / float64(XPPerLevel) * 100,
	}
}

// levelTitles maps milestone levels to display titles. LevelTitle picks the
// highest milestone at or below the given level.
var levelTitles = []struct {
	title string
	level int
}{
	{level: 50, title: "Financial Master"},
	{level: 40, title: "Investment Guru"},
	{level: 30, title: "Budget Expert"},
	{level: 20, title: "Smart Saver"},
	{level: 15, title: "Money Manager"},
	{level: 10, title: "Budget Builder"},
	{level: 5, title: "Financial Learner"},
	{level: 1, title: "Capling Beginner"},
}

// LevelTitle returns the display title for a level.
func LevelTitle(level int) string {
	for _, entry := range levelTitles {
		if level >= entry.level {
			return entry.title
		}
	}
	return "Capling Beginner"
}
