package services

import (
	"context"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
)

// MoodScoringService orchestrates the external scorer (with a bounded retry
// budget) and the local fallback, and enforces the one-mood-submission-per-
// UTC-day rule.
type MoodScoringService struct {
	store       Store
	external    ExternalMoodAnalyzer // nil when no API key is configured
	fallback    *FallbackAnalyzer
	maxAttempts int

	// Injected for tests; real time and real sleeping otherwise.
	now   func() time.Time
	sleep func(time.Duration)
}

func NewMoodScoringService(store Store, external ExternalMoodAnalyzer, maxAttempts int) *MoodScoringService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MoodScoringService{
		store:       store,
		external:    external,
		fallback:    NewFallbackAnalyzer(),
		maxAttempts: maxAttempts,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// CanSubmit reports whether the user has no accepted mood entry yet today
// (UTC calendar day). This is only a fast path: the unique store index on
// (user_id, entry_day) is what actually prevents double submissions.
func (s *MoodScoringService) CanSubmit(ctx context.Context, userID string, now time.Time) (bool, error) {
	utc := now.UTC()
	from := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Millisecond)

	exists, err := s.store.HasMoodEntryBetween(ctx, userID, from, to)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Analyze produces a validated MoodAnalysis for the content. The external
// scorer gets up to maxAttempts tries with exponential backoff between them;
// the first accepted result wins. A terminal degraded result is returned
// as-is. Only when every attempt soft-fails (or the budget is exhausted by a
// transport error) does the local fallback take over.
func (s *MoodScoringService) Analyze(ctx context.Context, content string, moodCtx models.MoodContext) models.MoodAnalysis {
	attempts := 0
	if s.external != nil {
		for attempt := 1; attempt <= s.maxAttempts; attempt++ {
			attempts = attempt
			result, err := s.external.Analyze(ctx, content, moodCtx, attempt, s.maxAttempts)
			if result != nil {
				result.Attempts = attempt
				return *result
			}
			if err != nil {
				// Exhaustion on the final attempt.
				break
			}
			if attempt < s.maxAttempts {
				s.sleep(backoffDelay(attempt))
			}
		}
	}

	analysis := s.fallback.Analyze(content, moodCtx)
	analysis.Attempts = attempts
	return analysis
}

// Submit runs the daily guard, scores the content, and persists the entry.
// A guard read error fails open: the insert's unique index still catches
// duplicates, so an unavailable pre-check must not block journaling.
func (s *MoodScoringService) Submit(ctx context.Context, userID, content string, moodCtx models.MoodContext) (*models.MoodEntry, error) {
	now := s.now()

	ok, err := s.CanSubmit(ctx, userID, now)
	if err == nil && !ok {
		return nil, ErrAlreadySubmittedToday
	}

	entry := &models.MoodEntry{
		CreatedAt: now,
		UserID:    userID,
		EntryDay:  models.EntryDayUTC(now),
		Content:   content,
		Context:   moodCtx,
		Analysis:  s.Analyze(ctx, content, moodCtx),
	}

	if err := s.store.InsertMoodEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// backoffDelay doubles per attempt: 1s after the first failure, 2s after the
// second, 3s total across a 3-attempt budget.
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}
