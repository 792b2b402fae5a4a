package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeRejectsTooShortContent(t *testing.T) {
	scorer := NewContentScorer()

	for _, text := range []string{"", " ", "a", "  x  "} {
		analysis := scorer.Analyze(text)
		require.True(t, analysis.IsSpam, "text %q should be rejected", text)
		require.Equal(t, 100, analysis.Score)
		require.Equal(t, []string{"Content too short"}, analysis.Indicators)
	}
}

func TestAnalyzeCleanContent(t *testing.T) {
	scorer := NewContentScorer()

	analysis := scorer.Analyze("Had a quiet day, read a book and walked the dog in the park.")
	require.False(t, analysis.IsSpam)
	require.Equal(t, 0, analysis.Score)
	require.Empty(t, analysis.Indicators)
}

func TestAnalyzeRules(t *testing.T) {
	scorer := NewContentScorer()

	tests := []struct {
		name      string
		text      string
		score     int
		spam      bool
		indicator string
	}{
		{
			name:      "three patterns stay under threshold",
			text:      "buy now and click here for some free money today",
			score:     45,
			spam:      false,
			indicator: "Matched 3 suspicious patterns",
		},
		{
			name:      "four patterns cross threshold",
			text:      "buy now, click here, get rich, make money fast",
			score:     60,
			spam:      true,
			indicator: "Matched 4 suspicious patterns",
		},
		{
			name:      "excessive capitalization",
			text:      "THIS IS ABSOLUTELY UNACCEPTABLE BEHAVIOR RIGHT HERE",
			score:     25,
			spam:      false,
			indicator: "Excessive capitalization",
		},
		{
			name:      "excessive punctuation",
			text:      "Wow!!! So!!! Great!!! Really!!! Nice!!!",
			score:     20,
			spam:      false,
			indicator: "Excessive punctuation",
		},
		{
			name:      "shouting punctuation run",
			text:      "I cannot believe this happened today!!!",
			score:     20,
			spam:      false,
			indicator: "Excessive punctuation",
		},
		{
			name:      "repeated characters",
			text:      "soooooo very sleepy this afternoon",
			score:     15,
			spam:      false,
			indicator: "Repeated characters",
		},
		{
			name:      "too many links",
			text:      "look https://a.example.com https://b.example.com https://c.example.com https://d.example.com",
			score:     30,
			spam:      false,
			indicator: "Too many links (4)",
		},
		{
			name:      "suspicious link domain",
			text:      "grab the deal at https://best-deals.tk/offer today",
			score:     25,
			spam:      false,
			indicator: "Suspicious link domain (.tk)",
		},
		{
			name:      "suspicious domain behind a port",
			text:      "see https://mirror.click:8443/path for the files",
			score:     25,
			spam:      false,
			indicator: "Suspicious link domain (.click)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := scorer.Analyze(tt.text)
			require.Equal(t, tt.score, analysis.Score)
			require.Equal(t, tt.spam, analysis.IsSpam)
			require.Len(t, analysis.Indicators, 1)
			require.Equal(t, tt.indicator, analysis.Indicators[0])
		})
	}
}

func TestAnalyzeExcessiveLength(t *testing.T) {
	scorer := NewContentScorer()

	analysis := scorer.Analyze(strings.Repeat("calm words here ", 400))
	require.Equal(t, 20, analysis.Score)
	require.False(t, analysis.IsSpam)
	require.Contains(t, analysis.Indicators, "Content excessively long")
}

func TestAnalyzePromotionalLinkBlast(t *testing.T) {
	scorer := NewContentScorer()

	analysis := scorer.Analyze("BUY NOW!!! http://a http://b http://c http://d CLICK HERE")
	// Patterns + shouting punctuation + link count: 30 + 20 + 30.
	require.True(t, analysis.IsSpam)
	require.GreaterOrEqual(t, analysis.Score, 80)
	require.GreaterOrEqual(t, len(analysis.Indicators), 3)
}

func TestAnalyzeMoreTriggeredRulesNeverLowerTheScore(t *testing.T) {
	scorer := NewContentScorer()

	base := scorer.Analyze("join us for free money today my friends")
	worse := scorer.Analyze("join us for free money today my friends, buy now and claim your prize")
	require.GreaterOrEqual(t, worse.Score, base.Score)
}

func TestAnalyzeSaturatesAt100(t *testing.T) {
	scorer := NewContentScorer()

	text := "BUY NOW!!!!! CLICK HERE!!!!! FREE MONEY!!!!! GET RICH!!!!! MAKE MONEY FAST!!!!! ONLINE PHARMACY CASINO JACKPOT VIAGRA https://x.tk https://y.tk https://z.tk https://w.tk"
	analysis := scorer.Analyze(text)
	require.True(t, analysis.IsSpam)
	require.Equal(t, 100, analysis.Score)
	require.GreaterOrEqual(t, len(analysis.Indicators), 3)
}

func TestAnalyzeSingleTLDIndicatorAcrossManyLinks(t *testing.T) {
	scorer := NewContentScorer()

	analysis := scorer.Analyze("links https://one.tk and https://two.ml here for you")
	// Only the first suspicious TLD is reported, once.
	require.Equal(t, 25, analysis.Score)
	require.Equal(t, []string{"Suspicious link domain (.tk)"}, analysis.Indicators)
}
