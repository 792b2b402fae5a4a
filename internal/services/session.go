package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionDuration      = 7 * 24 * time.Hour
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_session:"
)

// SessionService stores opaque bearer tokens in Redis with a 7-day TTL.
// One live session per user: a new login invalidates the previous token so
// the 7-day timer always restarts from the latest login.
type SessionService struct {
	rdb *redis.Client
}

func NewSessionService(rdb *redis.Client) *SessionService {
	return &SessionService{rdb: rdb}
}

// Create issues a new session token for the user.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	s.InvalidateUser(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, userID.String(), sessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, userSessionKeyPrefix+userID.String(), token, sessionDuration).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Validate resolves a token to a user ID. A missing or expired token is not
// an error, just not-ok.
func (s *SessionService) Validate(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}

// Invalidate removes a session token and its user mapping.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	userIDStr, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err == nil && userIDStr != "" {
		s.rdb.Del(ctx, userSessionKeyPrefix+userIDStr)
	}
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

// InvalidateUser drops the user's current session, if any.
func (s *SessionService) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	userKey := userSessionKeyPrefix + userID.String()

	token, err := s.rdb.Get(ctx, userKey).Result()
	if err == nil && token != "" {
		s.rdb.Del(ctx, sessionKeyPrefix+token)
	}
	return s.rdb.Del(ctx, userKey).Err()
}
