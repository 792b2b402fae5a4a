package services

import (
	"testing"

	"github.com/evermind-app/evermind-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestFallbackAnalyzeIsDeterministic(t *testing.T) {
	analyzer := NewFallbackAnalyzer()
	moodCtx := models.MoodContext{MoodScale: 6, StressLevel: 4, SleepQuality: "good"}

	first := analyzer.Analyze("a fairly grateful day with some work stress", moodCtx)
	second := analyzer.Analyze("a fairly grateful day with some work stress", moodCtx)
	require.Equal(t, first, second)
}

func TestFallbackAnalyzeVeryPositive(t *testing.T) {
	analyzer := NewFallbackAnalyzer()

	analysis := analyzer.Analyze("today was amazing and I feel so grateful", models.MoodContext{MoodScale: 8})
	// 8 + (amazing 2.0 + grateful 1.8 clamped to 3) = 11, clamped to 10.
	require.Equal(t, 10.0, analysis.Score)
	require.Equal(t, "very positive", analysis.Sentiment)
	require.Equal(t, "😄", analysis.Emoji)
	require.Equal(t, "thriving", analysis.MoodCategory)
	require.Equal(t, "high", analysis.Intensity)
	require.Contains(t, analysis.Themes, "gratitude")
	require.Len(t, analysis.Suggestions, 4)
	require.Equal(t, models.AnalysisSourceFallback, analysis.Source)
	require.InDelta(t, 0.7, analysis.Confidence, 1e-9)
}

func TestFallbackAnalyzeVeryNegative(t *testing.T) {
	analyzer := NewFallbackAnalyzer()

	analysis := analyzer.Analyze("feeling hopeless and worthless", models.MoodContext{MoodScale: 2})
	// 2 + (-2.5 - 2.5 clamped to -3) = -1, clamped to 0.
	require.Equal(t, 0.0, analysis.Score)
	require.Equal(t, "very negative", analysis.Sentiment)
	require.Equal(t, "😢", analysis.Emoji)
	require.Equal(t, "struggling", analysis.MoodCategory)
	require.Equal(t, "high", analysis.Intensity)
	require.Len(t, analysis.Suggestions, 4)
}

func TestFallbackAnalyzeNeutralWithoutSignals(t *testing.T) {
	analyzer := NewFallbackAnalyzer()

	analysis := analyzer.Analyze("went to the shop and came back", models.MoodContext{})
	require.Equal(t, 5.0, analysis.Score)
	require.Equal(t, "neutral", analysis.Sentiment)
	require.Equal(t, "😐", analysis.Emoji)
	require.Equal(t, "steady", analysis.MoodCategory)
	require.Equal(t, "low", analysis.Intensity)
	require.Equal(t, []string{"reflection"}, analysis.Themes)
}

func TestFallbackQuestionnaireAdjustments(t *testing.T) {
	analyzer := NewFallbackAnalyzer()

	tests := []struct {
		name    string
		moodCtx models.MoodContext
		score   float64
	}{
		{
			name: "stress energy and poor sleep drag the score down",
			// -(9-5)*0.3 + (2-5)*0.2 - 0.8 = -2.6, clamped to -2.
			moodCtx: models.MoodContext{StressLevel: 9, EnergyLevel: 2, SleepQuality: "poor"},
			score:   3.0,
		},
		{
			name:      "excellent sleep lifts the score",
			moodCtx: models.MoodContext{SleepQuality: "excellent"},
			score:   6.0,
		},
		{
			name: "mild stress below the midpoint helps a little",
			// -(4-5)*0.3 = +0.3
			moodCtx: models.MoodContext{StressLevel: 4},
			score:   5.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := analyzer.Analyze("", tt.moodCtx)
			require.InDelta(t, tt.score, analysis.Score, 1e-9)
		})
	}
}

func TestFallbackThemesCappedAtThree(t *testing.T) {
	analyzer := NewFallbackAnalyzer()

	analysis := analyzer.Analyze("deadline pressure at my job, but thankful for family support", models.MoodContext{})
	require.Len(t, analysis.Themes, 3)
	require.Equal(t, []string{"stress", "gratitude", "relationships"}, analysis.Themes)
}

func TestFallbackScoreRoundedToOneDecimal(t *testing.T) {
	analyzer := NewFallbackAnalyzer()

	analysis := analyzer.Analyze("", models.MoodContext{StressLevel: 4})
	require.InDelta(t, 5.3, analysis.Score, 1e-9)
}
