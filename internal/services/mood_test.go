package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
	"github.com/stretchr/testify/require"
)

type stubExternal struct {
	calls int
	fn    func(attempt, maxAttempts int) (*models.MoodAnalysis, error)
}

func (s *stubExternal) Analyze(_ context.Context, _ string, _ models.MoodContext, attempt, maxAttempts int) (*models.MoodAnalysis, error) {
	s.calls++
	return s.fn(attempt, maxAttempts)
}

// newTestMoodService builds a service with frozen time and recorded sleeps.
func newTestMoodService(store Store, external ExternalMoodAnalyzer, now time.Time) (*MoodScoringService, *[]time.Duration) {
	svc := NewMoodScoringService(store, external, 3)
	svc.now = func() time.Time { return now }
	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }
	return svc, &slept
}

func validExternalAnalysis() *models.MoodAnalysis {
	return &models.MoodAnalysis{
		Score:        7.5,
		Emoji:        "😊",
		Sentiment:    "positive",
		Insights:     "A good day overall.",
		Suggestions:  []string{"a", "b", "c", "d"},
		Themes:       []string{"work"},
		Confidence:   0.9,
		MoodCategory: "upbeat",
		Intensity:    "medium",
		Source:       models.AnalysisSourceExternal,
	}
}

func TestAnalyzeWithoutExternalUsesFallback(t *testing.T) {
	svc, slept := newTestMoodService(&mockStore{}, nil, time.Now())

	analysis := svc.Analyze(context.Background(), "a calm day", models.MoodContext{})
	require.Equal(t, models.AnalysisSourceFallback, analysis.Source)
	require.Equal(t, 0, analysis.Attempts)
	require.Empty(t, *slept)
}

func TestAnalyzeFirstAttemptSuccess(t *testing.T) {
	external := &stubExternal{fn: func(int, int) (*models.MoodAnalysis, error) {
		return validExternalAnalysis(), nil
	}}
	svc, slept := newTestMoodService(&mockStore{}, external, time.Now())

	analysis := svc.Analyze(context.Background(), "a good day", models.MoodContext{})
	require.Equal(t, models.AnalysisSourceExternal, analysis.Source)
	require.Equal(t, 1, analysis.Attempts)
	require.Equal(t, 1, external.calls)
	require.Empty(t, *slept)
}

func TestAnalyzeRetriesWithBackoffThenFallsBack(t *testing.T) {
	external := &stubExternal{fn: func(int, int) (*models.MoodAnalysis, error) {
		return nil, nil // soft failure every time
	}}
	svc, slept := newTestMoodService(&mockStore{}, external, time.Now())

	analysis := svc.Analyze(context.Background(), "a day", models.MoodContext{})
	require.Equal(t, models.AnalysisSourceFallback, analysis.Source)
	require.Equal(t, 3, analysis.Attempts)
	require.Equal(t, 3, external.calls)
	// 1s after the first failure, 2s after the second, none after the last.
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestAnalyzeSecondAttemptSuccess(t *testing.T) {
	external := &stubExternal{fn: func(attempt, _ int) (*models.MoodAnalysis, error) {
		if attempt < 2 {
			return nil, nil
		}
		return validExternalAnalysis(), nil
	}}
	svc, slept := newTestMoodService(&mockStore{}, external, time.Now())

	analysis := svc.Analyze(context.Background(), "a day", models.MoodContext{})
	require.Equal(t, models.AnalysisSourceExternal, analysis.Source)
	require.Equal(t, 2, analysis.Attempts)
	require.Equal(t, []time.Duration{time.Second}, *slept)
}

func TestAnalyzeTerminalErrorStopsRetrying(t *testing.T) {
	external := &stubExternal{fn: func(attempt, maxAttempts int) (*models.MoodAnalysis, error) {
		if attempt < maxAttempts {
			return nil, nil
		}
		return nil, errors.New("connection reset")
	}}
	svc, _ := newTestMoodService(&mockStore{}, external, time.Now())

	analysis := svc.Analyze(context.Background(), "a day", models.MoodContext{})
	require.Equal(t, models.AnalysisSourceFallback, analysis.Source)
	require.Equal(t, 3, analysis.Attempts)
}

func TestAnalyzeDegradedResultIsTerminal(t *testing.T) {
	external := &stubExternal{fn: func(int, int) (*models.MoodAnalysis, error) {
		return degradedAnalysis("Service credentials are misconfigured."), nil
	}}
	svc, slept := newTestMoodService(&mockStore{}, external, time.Now())

	analysis := svc.Analyze(context.Background(), "a day", models.MoodContext{})
	// Degraded is an accepted terminal result; the fallback must not replace it.
	require.Equal(t, models.AnalysisSourceDegraded, analysis.Source)
	require.Equal(t, 1, analysis.Attempts)
	require.Equal(t, 1, external.calls)
	require.Empty(t, *slept)
}

func TestCanSubmitChecksTheUTCDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 45, 0, 0, time.UTC)
	var gotFrom, gotTo time.Time
	store := &mockStore{
		hasMoodEntryBetween: func(_ context.Context, _ string, from, to time.Time) (bool, error) {
			gotFrom, gotTo = from, to
			return false, nil
		},
	}
	svc, _ := newTestMoodService(store, nil, now)

	ok, err := svc.CanSubmit(context.Background(), "u1", now)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), gotFrom)
	require.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, 999000000, time.UTC), gotTo)
}

func TestCanSubmitFlipsOnceAnEntryLands(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	hasEntry := false
	store := &mockStore{
		hasMoodEntryBetween: func(context.Context, string, time.Time, time.Time) (bool, error) {
			return hasEntry, nil
		},
	}
	svc, _ := newTestMoodService(store, nil, now)

	ok, err := svc.CanSubmit(context.Background(), "u1", now)
	require.NoError(t, err)
	require.True(t, ok)

	hasEntry = true // an entry committed in between

	ok, err = svc.CanSubmit(context.Background(), "u1", now)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubmitRejectsSecondEntryOfTheDay(t *testing.T) {
	inserted := false
	store := &mockStore{
		hasMoodEntryBetween: func(context.Context, string, time.Time, time.Time) (bool, error) {
			return true, nil
		},
		insertMoodEntry: func(context.Context, *models.MoodEntry) error {
			inserted = true
			return nil
		},
	}
	svc, _ := newTestMoodService(store, nil, time.Now())

	entry, err := svc.Submit(context.Background(), "u1", "an evening recap", models.MoodContext{})
	require.ErrorIs(t, err, ErrAlreadySubmittedToday)
	require.Nil(t, entry)
	require.False(t, inserted)
}

func TestSubmitPersistsScoredEntry(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	var got *models.MoodEntry
	store := &mockStore{
		insertMoodEntry: func(_ context.Context, entry *models.MoodEntry) error {
			got = entry
			return nil
		},
	}
	svc, _ := newTestMoodService(store, nil, now)

	entry, err := svc.Submit(context.Background(), "u1", "a calm day", models.MoodContext{MoodScale: 6})
	require.NoError(t, err)
	require.Same(t, got, entry)
	require.Equal(t, "u1", entry.UserID)
	require.Equal(t, "2025-03-10", entry.EntryDay)
	require.Equal(t, now, entry.CreatedAt)
	require.Equal(t, models.AnalysisSourceFallback, entry.Analysis.Source)
}

func TestSubmitGuardFailsOpenToTheUniqueIndex(t *testing.T) {
	store := &mockStore{
		hasMoodEntryBetween: func(context.Context, string, time.Time, time.Time) (bool, error) {
			return false, errors.New("mongo unavailable")
		},
		insertMoodEntry: func(context.Context, *models.MoodEntry) error {
			// The unique (user_id, entry_day) index still catches the duplicate.
			return ErrAlreadySubmittedToday
		},
	}
	svc, _ := newTestMoodService(store, nil, time.Now())

	entry, err := svc.Submit(context.Background(), "u1", "a day", models.MoodContext{})
	require.ErrorIs(t, err, ErrAlreadySubmittedToday)
	require.Nil(t, entry)
}

func TestBackoffDelayDoubles(t *testing.T) {
	require.Equal(t, time.Second, backoffDelay(1))
	require.Equal(t, 2*time.Second, backoffDelay(2))
	require.Equal(t, 4*time.Second, backoffDelay(3))
}
