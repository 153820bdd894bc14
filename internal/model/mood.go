package model

// Mood is a derived, non-persisted behavioral signal computed from recent
// transaction history and budget adherence.
type Mood string

// Mood values, happiest first.
const (
	MoodHappy     Mood = "happy"
	MoodNeutral   Mood = "neutral"
	MoodWorried   Mood = "worried"
	MoodSad       Mood = "sad"
	MoodDepressed Mood = "depressed"
)

// MoodResult pairs a mood with the numeric score it was mapped from.
// Recomputed on every read, never cached across requests.
type MoodResult struct {
	Mood  Mood `json:"mood"`
	Score int  `json:"score"`
}
