package services

import (
	"github.com/evermind-app/evermind-backend/internal/database"
	"github.com/evermind-app/evermind-backend/internal/models"
)

// violationTypeFor maps a gate block reason to the persisted violation type.
func violationTypeFor(reason DecisionReason) models.ViolationType {
	switch reason {
	case ReasonRateLimitDaily:
		return models.ViolationTypeRateLimitDaily
	case ReasonRateLimitHourly:
		return models.ViolationTypeRateLimitHourly
	case ReasonSpamContent:
		return models.ViolationTypeSpamContent
	default:
		return models.ViolationTypeSuspicious
	}
}

// RecordViolation persists one blocked action for admin review. The content
// excerpt is truncated so oversized spam doesn't bloat the audit table.
func RecordViolation(userID, ipAddress string, action ActionType, reason DecisionReason, content string) error {
	message := content
	const maxExcerpt = 500
	if len(message) > maxExcerpt {
		message = message[:maxExcerpt]
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO violations (user_id, ip_address, type, action_type, message, action_taken)
		VALUES ($1, $2, $3, $4, $5, 'blocked')
	`, userID, ipAddress, string(violationTypeFor(reason)), string(action), message)
	return err
}

// ListViolations returns the most recent violations, newest first.
func ListViolations(limit int) ([]models.Violation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, COALESCE(user_id::text, ''), COALESCE(ip_address, ''),
		       type, action_type, message, action_taken
		FROM violations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	violations := make([]models.Violation, 0, limit)
	for rows.Next() {
		var v models.Violation
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.UserID, &v.IPAddress,
			&v.Type, &v.ActionType, &v.Message, &v.ActionTaken); err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}
