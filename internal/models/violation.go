package models

import (
	"time"

	"github.com/google/uuid"
)

// ViolationType mirrors the moderation block reasons persisted for admins.
type ViolationType string

const (
	ViolationTypeRateLimitDaily  ViolationType = "rate_limit_daily"
	ViolationTypeRateLimitHourly ViolationType = "rate_limit_hourly"
	ViolationTypeSpamContent     ViolationType = "spam_content"
	ViolationTypeSuspicious      ViolationType = "suspicious_behavior"
)

// Violation is one blocked action, recorded in Postgres for admin review.
type Violation struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    string `json:"user_id"`
	IPAddress string `json:"ip_address,omitempty"`

	Type        ViolationType `json:"type"`
	ActionType  string        `json:"action_type"` // post | comment
	Message     string        `json:"message"`     // offending content excerpt
	ActionTaken string        `json:"action_taken"`
}
