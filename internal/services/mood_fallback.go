package services

import (
	"math"
	"strings"

	"github.com/evermind-app/evermind-backend/internal/models"
)

// Weighted sentiment lexicons for the local scorer.
var positiveWords = map[string]float64{
	"amazing":   2.0,
	"wonderful": 2.0,
	"fantastic": 2.0,
	"excellent": 1.8,
	"grateful":  1.8,
	"joyful":    1.8,
	"excited":   1.5,
	"proud":     1.5,
	"happy":     1.5,
	"loved":     1.5,
	"hopeful":   1.2,
	"peaceful":  1.2,
	"great":     1.2,
	"calm":      1.0,
	"good":      1.0,
}

var negativeWords = map[string]float64{
	"hopeless":    -2.5,
	"worthless":   -2.5,
	"miserable":   -2.2,
	"depressed":   -2.2,
	"devastated":  -2.2,
	"terrible":    -2.0,
	"awful":       -2.0,
	"anxious":     -1.8,
	"overwhelmed": -1.8,
	"lonely":      -1.8,
	"afraid":      -1.6,
	"angry":       -1.5,
	"sad":         -1.5,
	"stressed":    -1.5,
	"worried":     -1.4,
	"tired":       -1.2,
}

// Theme keyword table. Categories are checked in this order; at most three
// are reported.
var themeCategories = []struct {
	name     string
	keywords []string
}{
	{"stress", []string{"stress", "pressure", "deadline", "overwhelm", "anxious", "anxiety"}},
	{"gratitude", []string{"grateful", "thankful", "gratitude", "appreciate", "blessed"}},
	{"relationships", []string{"friend", "family", "partner", "relationship", "mom", "dad", "wife", "husband"}},
	{"work", []string{"work", "job", "boss", "career", "office", "project"}},
	{"health", []string{"health", "sleep", "exercise", "sick", "doctor", "workout"}},
	{"achievement", []string{"achieved", "accomplished", "finished", "completed", "goal", "success"}},
}

// One of four encouragement lines, keyed by score tier (low to high).
var encouragements = [4]string{
	"Please be gentle with yourself right now, and consider reaching out to someone you trust.",
	"Rough patches pass; small routines like a short walk can help steady things.",
	"You seem to be on stable ground; keep doing what works for you.",
	"Wonderful energy today; this is a great moment to bank some of it for harder days.",
}

var suggestionTiers = [4][4]string{
	{
		"Reach out to a friend, family member, or counselor today.",
		"Try a 5-minute breathing exercise to lower the immediate pressure.",
		"Write down one small thing you can control right now.",
		"Be kind to yourself; difficult feelings are not failures.",
	},
	{
		"Take a short walk outside, even ten minutes helps.",
		"Note one thing that went okay today, however small.",
		"Limit doomscrolling tonight and wind down early.",
		"Talk through what's weighing on you with someone you trust.",
	},
	{
		"Keep up the routines that are working for you.",
		"Add one small act of self-care to today.",
		"Check in with a friend; connection compounds.",
		"Jot down what made today feel steady.",
	},
	{
		"Capture what made today great so you can revisit it.",
		"Share some of this energy with someone who needs it.",
		"Set one small goal to ride the momentum.",
		"Celebrate the win, you earned it.",
	},
}

// FallbackAnalyzer is the deterministic local scorer used when the external
// scorer is unavailable. Analyze is pure: identical inputs always produce an
// identical result, and the output satisfies the same shape contract as the
// external scorer's.
type FallbackAnalyzer struct{}

func NewFallbackAnalyzer() *FallbackAnalyzer {
	return &FallbackAnalyzer{}
}

func (f *FallbackAnalyzer) Analyze(content string, moodCtx models.MoodContext) models.MoodAnalysis {
	base := 5.0
	if moodCtx.MoodScale >= 1 && moodCtx.MoodScale <= 10 {
		base = float64(moodCtx.MoodScale)
	}

	score := base + contentAdjustment(content) + questionnaireAdjustment(moodCtx)
	score = clampFloat(score, 0, 10)
	score = math.Round(score*10) / 10

	sentiment := sentimentBand(score)

	return models.MoodAnalysis{
		Score:        score,
		Emoji:        emojiBand(score),
		Sentiment:    sentiment,
		Insights:     "Your entry reads as " + sentiment + " today. " + encouragements[scoreTier(score)],
		Suggestions:  append([]string(nil), suggestionTiers[scoreTier(score)][:]...),
		Themes:       detectThemes(content),
		Confidence:   0.7,
		MoodCategory: categoryBand(score),
		Intensity:    intensityBand(score),
		Source:       models.AnalysisSourceFallback,
	}
}

// contentAdjustment sums matched lexicon weights, clamped to [-3, 3].
func contentAdjustment(content string) float64 {
	lower := strings.ToLower(content)
	total := 0.0
	for word, weight := range positiveWords {
		if strings.Contains(lower, word) {
			total += weight
		}
	}
	for word, weight := range negativeWords {
		if strings.Contains(lower, word) {
			total += weight
		}
	}
	return clampFloat(total, -3, 3)
}

// questionnaireAdjustment folds the optional stress/energy/sleep answers into
// a correction clamped to [-2, 2].
func questionnaireAdjustment(moodCtx models.MoodContext) float64 {
	total := 0.0
	if moodCtx.StressLevel >= 1 && moodCtx.StressLevel <= 10 {
		total -= float64(moodCtx.StressLevel-5) * 0.3
	}
	if moodCtx.EnergyLevel >= 1 && moodCtx.EnergyLevel <= 10 {
		total += float64(moodCtx.EnergyLevel-5) * 0.2
	}
	sleep := strings.ToLower(moodCtx.SleepQuality)
	switch {
	case strings.Contains(sleep, "excellent"):
		total += 1.0
	case strings.Contains(sleep, "good"):
		total += 0.5
	case strings.Contains(sleep, "poor"):
		total -= 0.8
	}
	return clampFloat(total, -2, 2)
}

// Seven fixed, non-overlapping bands over [0,10].
func sentimentBand(score float64) string {
	switch {
	case score < 1.5:
		return "very negative"
	case score < 3:
		return "negative"
	case score < 4.5:
		return "slightly negative"
	case score < 5.5:
		return "neutral"
	case score < 7:
		return "slightly positive"
	case score < 8.5:
		return "positive"
	default:
		return "very positive"
	}
}

func emojiBand(score float64) string {
	switch {
	case score < 1.5:
		return "😢"
	case score < 3:
		return "😞"
	case score < 4.5:
		return "😕"
	case score < 5.5:
		return "😐"
	case score < 7:
		return "🙂"
	case score < 8.5:
		return "😊"
	default:
		return "😄"
	}
}

func categoryBand(score float64) string {
	switch {
	case score < 1.5:
		return "struggling"
	case score < 3:
		return "low"
	case score < 4.5:
		return "down"
	case score < 5.5:
		return "steady"
	case score < 7:
		return "content"
	case score < 8.5:
		return "upbeat"
	default:
		return "thriving"
	}
}

// High at the extremes, low in the middle third, medium in between.
func intensityBand(score float64) string {
	switch {
	case score < 1.5 || score >= 8.5:
		return "high"
	case score >= 10.0/3 && score < 20.0/3:
		return "low"
	default:
		return "medium"
	}
}

// scoreTier maps a score to one of four tiers used for insights and
// suggestions.
func scoreTier(score float64) int {
	switch {
	case score < 3:
		return 0
	case score < 5.5:
		return 1
	case score < 8.5:
		return 2
	default:
		return 3
	}
}

// detectThemes returns up to three matched theme categories. When nothing
// matches, "reflection" stands in so the result still satisfies the shared
// shape contract (themes must be non-empty).
func detectThemes(content string) []string {
	lower := strings.ToLower(content)
	var themes []string
	for _, category := range themeCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lower, keyword) {
				themes = append(themes, category.name)
				break
			}
		}
		if len(themes) == 3 {
			break
		}
	}
	if len(themes) == 0 {
		return []string{"reflection"}
	}
	return themes
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
