package services

import (
	"context"
	"time"
)

// Per-action caps. These are product constants, not per-user configuration.
const (
	PostDailyLimit    = 10
	PostHourlyLimit   = 3
	CommentDailyLimit = 50
	CommentHourlyLimit = 15
)

const (
	RateReasonDaily  = "daily_limit_exceeded"
	RateReasonHourly = "hourly_limit_exceeded"
)

// RateInfo reports the window counts behind a rate decision. On a store
// failure Error is set and the action is allowed (fail open): rate limiting
// must never take down the write path.
type RateInfo struct {
	Allowed         bool       `json:"allowed"`
	Reason          string     `json:"reason,omitempty"`
	ActionType      ActionType `json:"action_type"`
	DailyCount      int        `json:"daily_count"`
	DailyLimit      int        `json:"daily_limit"`
	DailyRemaining  int        `json:"daily_remaining"`
	HourlyCount     int        `json:"hourly_count"`
	HourlyLimit     int        `json:"hourly_limit"`
	HourlyRemaining int        `json:"hourly_remaining"`
	Error           string     `json:"error,omitempty"`
}

// RateLimiter counts a user's recent actions against fixed daily and hourly
// caps. The daily window is UTC-midnight-aligned; the hourly window is the
// trailing 60 minutes. Counts are recomputed from the store on every call.
type RateLimiter struct {
	store Store
}

func NewRateLimiter(store Store) *RateLimiter {
	return &RateLimiter{store: store}
}

func limitsFor(action ActionType) (daily, hourly int) {
	if action == ActionTypeComment {
		return CommentDailyLimit, CommentHourlyLimit
	}
	return PostDailyLimit, PostHourlyLimit
}

// CheckLimits returns whether the action is allowed right now, with the
// counts for both windows. The daily check runs first; an exhausted daily
// cap wins regardless of the hourly count.
func (l *RateLimiter) CheckLimits(ctx context.Context, userID string, action ActionType, now time.Time) (bool, RateInfo) {
	dailyLimit, hourlyLimit := limitsFor(action)
	info := RateInfo{
		Allowed:     true,
		ActionType:  action,
		DailyLimit:  dailyLimit,
		HourlyLimit: hourlyLimit,
	}

	utc := now.UTC()
	dailyStart := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	hourlyStart := now.Add(-time.Hour)

	dailyCount, err := l.store.CountActionsSince(ctx, userID, action, dailyStart)
	if err != nil {
		info.Error = err.Error()
		return true, info
	}
	info.DailyCount = int(dailyCount)

	if info.DailyCount >= dailyLimit {
		info.Allowed = false
		info.Reason = RateReasonDaily
		return false, info
	}

	hourlyCount, err := l.store.CountActionsSince(ctx, userID, action, hourlyStart)
	if err != nil {
		info.Error = err.Error()
		info.DailyRemaining = remaining(dailyLimit, info.DailyCount)
		return true, info
	}
	info.HourlyCount = int(hourlyCount)

	if info.HourlyCount >= hourlyLimit {
		info.Allowed = false
		info.Reason = RateReasonHourly
		return false, info
	}

	info.DailyRemaining = remaining(dailyLimit, info.DailyCount)
	info.HourlyRemaining = remaining(hourlyLimit, info.HourlyCount)
	return true, info
}

// remaining is the headroom left in a window once the current action commits.
func remaining(limit, count int) int {
	r := limit - count - 1
	if r < 0 {
		return 0
	}
	return r
}
