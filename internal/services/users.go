package services

import (
	"database/sql"
	"errors"

	"github.com/evermind-app/evermind-backend/internal/database"
	"github.com/evermind-app/evermind-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrUsernameTaken is returned when signup hits the unique username index.
var ErrUsernameTaken = errors.New("username already taken")

// CreateUser inserts a new user row and returns it.
func CreateUser(username, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	err := database.PostgresDB.QueryRow(`
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// GetUserByUsername looks up an active user for signin. Returns (nil, nil)
// when no such user exists.
func GetUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	err := database.PostgresDB.QueryRow(`
		SELECT id, username, password_hash, created_at, is_active
		FROM users
		WHERE LOWER(username) = LOWER($1) AND is_active = TRUE
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID fetches a user by ID. Returns (nil, nil) when not found.
func GetUserByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := database.PostgresDB.QueryRow(`
		SELECT id, username, password_hash, created_at, is_active
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
