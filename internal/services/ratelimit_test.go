package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var limiterNow = time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)

// countsByWindow answers the daily (UTC midnight) window with daily and any
// other window with hourly, recording each since value it was asked about.
func countsByWindow(daily, hourly int64, asked *[]time.Time) func(context.Context, string, ActionType, time.Time) (int64, error) {
	midnight := time.Date(limiterNow.Year(), limiterNow.Month(), limiterNow.Day(), 0, 0, 0, 0, time.UTC)
	return func(_ context.Context, _ string, _ ActionType, since time.Time) (int64, error) {
		if asked != nil {
			*asked = append(*asked, since)
		}
		if since.Equal(midnight) {
			return daily, nil
		}
		return hourly, nil
	}
}

func TestCheckLimitsUnderBothWindows(t *testing.T) {
	var asked []time.Time
	limiter := NewRateLimiter(&mockStore{countActionsSince: countsByWindow(2, 1, &asked)})

	allowed, info := limiter.CheckLimits(context.Background(), "u1", ActionTypePost, limiterNow)
	require.True(t, allowed)
	require.True(t, info.Allowed)
	require.Empty(t, info.Reason)
	require.Equal(t, 2, info.DailyCount)
	require.Equal(t, PostDailyLimit, info.DailyLimit)
	require.Equal(t, 7, info.DailyRemaining) // 10 - 2 - the action being admitted
	require.Equal(t, 1, info.HourlyCount)
	require.Equal(t, PostHourlyLimit, info.HourlyLimit)
	require.Equal(t, 1, info.HourlyRemaining)

	// Daily window is UTC-midnight aligned, hourly is trailing 60 minutes.
	require.Len(t, asked, 2)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), asked[0])
	require.Equal(t, limiterNow.Add(-time.Hour), asked[1])
}

func TestCheckLimitsDailyExhaustedWins(t *testing.T) {
	var asked []time.Time
	// Hourly count of zero must not matter once the daily cap is reached.
	limiter := NewRateLimiter(&mockStore{countActionsSince: countsByWindow(PostDailyLimit, 0, &asked)})

	allowed, info := limiter.CheckLimits(context.Background(), "u1", ActionTypePost, limiterNow)
	require.False(t, allowed)
	require.Equal(t, RateReasonDaily, info.Reason)
	require.Equal(t, PostDailyLimit, info.DailyCount)
	// The hourly window was never consulted.
	require.Len(t, asked, 1)
}

func TestCheckLimitsHourlyExhausted(t *testing.T) {
	limiter := NewRateLimiter(&mockStore{countActionsSince: countsByWindow(5, PostHourlyLimit, nil)})

	allowed, info := limiter.CheckLimits(context.Background(), "u1", ActionTypePost, limiterNow)
	require.False(t, allowed)
	require.Equal(t, RateReasonHourly, info.Reason)
	require.Equal(t, PostHourlyLimit, info.HourlyCount)
}

func TestCheckLimitsLastSlotHasZeroRemaining(t *testing.T) {
	limiter := NewRateLimiter(&mockStore{countActionsSince: countsByWindow(PostDailyLimit-1, PostHourlyLimit-1, nil)})

	allowed, info := limiter.CheckLimits(context.Background(), "u1", ActionTypePost, limiterNow)
	require.True(t, allowed)
	require.Equal(t, 0, info.DailyRemaining)
	require.Equal(t, 0, info.HourlyRemaining)
}

func TestCheckLimitsCommentCaps(t *testing.T) {
	limiter := NewRateLimiter(&mockStore{countActionsSince: countsByWindow(CommentDailyLimit-1, CommentHourlyLimit-1, nil)})

	allowed, info := limiter.CheckLimits(context.Background(), "u1", ActionTypeComment, limiterNow)
	require.True(t, allowed)
	require.Equal(t, CommentDailyLimit, info.DailyLimit)
	require.Equal(t, CommentHourlyLimit, info.HourlyLimit)
	require.Equal(t, 0, info.DailyRemaining)
	require.Equal(t, 0, info.HourlyRemaining)
}

func TestCheckLimitsFailsOpenOnStoreError(t *testing.T) {
	limiter := NewRateLimiter(&mockStore{
		countActionsSince: func(context.Context, string, ActionType, time.Time) (int64, error) {
			return 0, errors.New("mongo unavailable")
		},
	})

	allowed, info := limiter.CheckLimits(context.Background(), "u1", ActionTypePost, limiterNow)
	require.True(t, allowed)
	require.True(t, info.Allowed)
	require.Contains(t, info.Error, "mongo unavailable")
}
