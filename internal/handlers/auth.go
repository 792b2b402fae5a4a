package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/evermind-app/evermind-backend/internal/services"
	"github.com/evermind-app/evermind-backend/pkg/utils"
)

// Signup Request
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signin Request
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Auth Response
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// Signup handles anonymous, username-only registration.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: err.Error()})
		return
	}

	if len(req.Password) < 8 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Password must be at least 8 characters"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to hash password"})
		return
	}

	user, err := services.CreateUser(utils.NormalizeUsername(req.Username), hashedPassword)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Username is already taken"})
			return
		}
		log.Printf("ERROR: failed to create user: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to create user"})
		return
	}

	token, err := sessionService.Create(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to create session: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to create session"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User: map[string]interface{}{
			"id":         user.ID.String(),
			"username":   user.Username,
			"created_at": user.CreatedAt,
		},
		Token: token,
	})
}

// Signin handles username/password login.
func Signin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Username and password are required"})
		return
	}

	user, err := services.GetUserByUsername(utils.NormalizeUsername(req.Username))
	if err != nil {
		log.Printf("ERROR: failed to look up user: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Database error"})
		return
	}
	if user == nil {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid username or password"})
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid username or password"})
		return
	}

	token, err := sessionService.Create(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR: failed to create session: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to create session"})
		return
	}

	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "Login successful",
		User: map[string]interface{}{
			"id":         user.ID.String(),
			"username":   user.Username,
			"created_at": user.CreatedAt,
		},
		Token: token,
	})
}

// Signout invalidates the current session token.
func Signout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Authentication required"})
		return
	}

	if err := sessionService.Invalidate(r.Context(), token); err != nil {
		log.Printf("ERROR: failed to invalidate session: %v", err)
	}
	json.NewEncoder(w).Encode(AuthResponse{Success: true, Message: "Signed out"})
}

// GetMe returns the authenticated user's profile.
func GetMe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireAuth(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Authentication required"})
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil || user == nil {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid session"})
		return
	}

	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "OK",
		User: map[string]interface{}{
			"id":         user.ID.String(),
			"username":   user.Username,
			"created_at": user.CreatedAt,
		},
	})
}
