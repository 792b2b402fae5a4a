package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
	"github.com/evermind-app/evermind-backend/internal/services"
)

type CreateMoodEntryRequest struct {
	Content string             `json:"content"`
	Context models.MoodContext `json:"context"`
}

type CreateMoodEntryResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Entry   *models.MoodEntry `json:"entry,omitempty"`
}

type GetMoodEntriesResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Entries []models.MoodEntry `json:"entries"`
	Total   int64              `json:"total"`
}

// CreateMoodEntry scores and stores today's mood entry. One entry per UTC
// calendar day; a second submission is rejected with 409.
func CreateMoodEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireAuth(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(CreateMoodEntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req CreateMoodEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateMoodEntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Content) == "" && req.Context.MoodScale == 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateMoodEntryResponse{Success: false, Message: "Content or a mood scale is required"})
		return
	}

	// Scoring may retry against the external model with backoff, so this
	// budget is wider than the usual store timeout.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	entry, err := moodService.Submit(ctx, userID.String(), req.Content, req.Context)
	if err != nil {
		if errors.Is(err, services.ErrAlreadySubmittedToday) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(CreateMoodEntryResponse{Success: false, Message: "You've already checked in today. Come back tomorrow!"})
			return
		}
		log.Printf("ERROR: failed to submit mood entry: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(CreateMoodEntryResponse{Success: false, Message: "Failed to save mood entry"})
		return
	}

	collector.RecordMoodAnalysis(string(entry.Analysis.Source), entry.Analysis.Attempts)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateMoodEntryResponse{
		Success: true,
		Message: "Mood entry saved",
		Entry:   entry,
	})
}

// GetMoodEntries returns the authenticated user's mood history, newest first.
func GetMoodEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireAuth(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(GetMoodEntriesResponse{Success: false, Message: "Authentication required", Entries: []models.MoodEntry{}})
		return
	}

	limit, skip := parsePagination(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, total, err := contentStore.ListMoodEntries(ctx, userID.String(), limit, skip)
	if err != nil {
		log.Printf("ERROR: failed to list mood entries: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(GetMoodEntriesResponse{Success: false, Message: "Failed to fetch mood entries", Entries: []models.MoodEntry{}})
		return
	}

	if entries == nil {
		entries = []models.MoodEntry{}
	}
	json.NewEncoder(w).Encode(GetMoodEntriesResponse{Success: true, Entries: entries, Total: total})
}
