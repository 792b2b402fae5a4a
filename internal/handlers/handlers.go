package handlers

import (
	"net/http"
	"strings"

	"github.com/evermind-app/evermind-backend/internal/metrics"
	"github.com/evermind-app/evermind-backend/internal/services"
	"github.com/google/uuid"
)

// Package-level service handles, wired once at startup via Init.
var (
	sessionService *services.SessionService
	contentStore   services.Store
	moderationGate *services.ModerationGate
	moodService    *services.MoodScoringService
	moderationFeed *services.ModerationFeed
	collector      *metrics.Collector
	adminAPIToken  string
)

// Init wires the handler package to its backing services.
// Must be called before routes.SetupRoutes.
func Init(
	sessions *services.SessionService,
	store services.Store,
	gate *services.ModerationGate,
	mood *services.MoodScoringService,
	feed *services.ModerationFeed,
	m *metrics.Collector,
	adminToken string,
) {
	sessionService = sessions
	contentStore = store
	moderationGate = gate
	moodService = mood
	moderationFeed = feed
	collector = m
	adminAPIToken = adminToken
}

// extractBearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAuth validates the session and returns the authenticated user's ID.
// Returns (uuid.Nil, false) if not authenticated.
func requireAuth(r *http.Request) (uuid.UUID, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return uuid.Nil, false
	}
	userID, ok, err := sessionService.Validate(r.Context(), token)
	if err != nil || !ok {
		return uuid.Nil, false
	}
	return userID, true
}

// requireAdmin checks the static admin bearer token configured at startup.
func requireAdmin(r *http.Request) bool {
	if adminAPIToken == "" {
		return false
	}
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	return token == adminAPIToken
}

// blockStatus maps a moderation block reason to an HTTP status code.
// Rate limits are "come back later" (429); spam and suspicious behavior
// are rejected outright (400).
func blockStatus(reason services.DecisionReason) int {
	switch reason {
	case services.ReasonRateLimitDaily, services.ReasonRateLimitHourly:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
