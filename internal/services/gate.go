package services

import (
	"context"
	"time"
)

// DecisionReason is the machine-readable reason behind a block.
type DecisionReason string

const (
	ReasonNone               DecisionReason = ""
	ReasonRateLimitDaily     DecisionReason = "daily_limit_exceeded"
	ReasonRateLimitHourly    DecisionReason = "hourly_limit_exceeded"
	ReasonSpamContent        DecisionReason = "spam_content_detected"
	ReasonSuspiciousBehavior DecisionReason = "suspicious_behavior"
)

// ModerationDecision is the gate's verdict for one inbound action. When
// blocked, exactly one of RateInfo/Content/Behavior carries the details for
// the winning check; when allowed, all evaluated checks are attached as
// diagnostics so the caller can persist them alongside the created row.
type ModerationDecision struct {
	Blocked bool            `json:"blocked"`
	Reason  DecisionReason  `json:"reason,omitempty"`
	Message string          `json:"message,omitempty"`

	RateInfo *RateInfo        `json:"rate_info,omitempty"`
	Content  *ContentAnalysis `json:"content,omitempty"`
	Behavior *BehaviorProfile `json:"behavior,omitempty"`
}

// RateChecker, ContentAnalyzer and BehaviorProfiler are the three checks the
// gate composes. Declared as interfaces so tests can observe invocation order.
type RateChecker interface {
	CheckLimits(ctx context.Context, userID string, action ActionType, now time.Time) (bool, RateInfo)
}

type ContentAnalyzer interface {
	Analyze(text string) ContentAnalysis
}

type BehaviorProfiler interface {
	Profile(ctx context.Context, userID string, now time.Time) BehaviorProfile
}

// ModerationGate runs the rate, content and behavior checks in that fixed
// order. The first failing check wins and later checks are not evaluated:
// abuse of volume outranks the content itself, which outranks history.
type ModerationGate struct {
	rates    RateChecker
	content  ContentAnalyzer
	behavior BehaviorProfiler
	now      func() time.Time
}

func NewModerationGate(rates RateChecker, content ContentAnalyzer, behavior BehaviorProfiler) *ModerationGate {
	return &ModerationGate{
		rates:    rates,
		content:  content,
		behavior: behavior,
		now:      time.Now,
	}
}

func (g *ModerationGate) Decide(ctx context.Context, userID string, action ActionType, text string) ModerationDecision {
	now := g.now()

	allowed, rateInfo := g.rates.CheckLimits(ctx, userID, action, now)
	if !allowed {
		reason := ReasonRateLimitHourly
		message := "You've reached the hourly limit for this action. Please try again later."
		if rateInfo.Reason == RateReasonDaily {
			reason = ReasonRateLimitDaily
			message = "You've reached the daily limit for this action. Please try again tomorrow."
		}
		return ModerationDecision{
			Blocked:  true,
			Reason:   reason,
			Message:  message,
			RateInfo: &rateInfo,
		}
	}

	analysis := g.content.Analyze(text)
	if analysis.IsSpam {
		return ModerationDecision{
			Blocked: true,
			Reason:  ReasonSpamContent,
			Message: "This content looks like spam and was not accepted.",
			Content: &analysis,
		}
	}

	profile := g.behavior.Profile(ctx, userID, now)
	if profile.IsSuspicious {
		return ModerationDecision{
			Blocked:  true,
			Reason:   ReasonSuspiciousBehavior,
			Message:  "Recent account activity looks suspicious; this action was not accepted.",
			Behavior: &profile,
		}
	}

	return ModerationDecision{
		RateInfo: &rateInfo,
		Content:  &analysis,
		Behavior: &profile,
	}
}
