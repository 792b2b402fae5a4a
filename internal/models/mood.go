package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalysisSource records which scorer produced a MoodAnalysis.
type AnalysisSource string

const (
	// AnalysisSourceExternal means the external AI scorer produced the result.
	AnalysisSourceExternal AnalysisSource = "gemini"
	// AnalysisSourceFallback means the local heuristic scorer produced the result.
	AnalysisSourceFallback AnalysisSource = "fallback"
	// AnalysisSourceDegraded means the external scorer was unusable (quota or
	// credentials) and a terminal, explained placeholder was returned instead.
	AnalysisSourceDegraded AnalysisSource = "degraded"
)

// MoodAnalysis is the validated sentiment/wellness score for one piece of
// content. All fields are populated regardless of which scorer produced it.
type MoodAnalysis struct {
	Score        float64        `bson:"score" json:"score"`                 // 0..10
	Emoji        string         `bson:"emoji" json:"emoji"`
	Sentiment    string         `bson:"sentiment" json:"sentiment"`
	Insights     string         `bson:"insights" json:"insights"`
	Suggestions  []string       `bson:"suggestions" json:"suggestions"`     // exactly 4
	Themes       []string       `bson:"themes" json:"themes"`               // at least 1
	Confidence   float64        `bson:"confidence" json:"confidence"`       // 0..1
	MoodCategory string         `bson:"mood_category" json:"mood_category"`
	Intensity    string         `bson:"intensity" json:"intensity"`         // low | medium | high
	Source       AnalysisSource `bson:"source" json:"source"`
	Attempts     int            `bson:"attempts" json:"attempts"`
}

// MoodContext carries the optional structured questionnaire answers submitted
// alongside a mood entry. All fields are independently optional.
type MoodContext struct {
	MoodScale    int    `bson:"mood_scale,omitempty" json:"mood_scale,omitempty"` // self-reported 1..10, 0 = absent
	MoodWord     string `bson:"mood_word,omitempty" json:"mood_word,omitempty"`
	Positive     string `bson:"positive,omitempty" json:"positive,omitempty"`
	Stressors    string `bson:"stressors,omitempty" json:"stressors,omitempty"`
	StressLevel  int    `bson:"stress_level,omitempty" json:"stress_level,omitempty"` // 1..10, 0 = absent
	EnergyLevel  int    `bson:"energy_level,omitempty" json:"energy_level,omitempty"` // 1..10, 0 = absent
	SleepQuality string `bson:"sleep_quality,omitempty" json:"sleep_quality,omitempty"`
}

// MoodEntry is one accepted mood submission. EntryDay is the UTC calendar day
// in YYYY-MM-DD form; a unique index on (user_id, entry_day) enforces the
// one-submission-per-day rule at the store level.
type MoodEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID   string       `bson:"user_id" json:"user_id"`
	EntryDay string       `bson:"entry_day" json:"entry_day"`
	Content  string       `bson:"content" json:"content"`
	Context  MoodContext  `bson:"context" json:"context"`
	Analysis MoodAnalysis `bson:"analysis" json:"analysis"`
}

// EntryDayUTC formats t's UTC calendar day as stored in MoodEntry.EntryDay.
func EntryDayUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
