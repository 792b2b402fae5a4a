package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
)

type CreateJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CreateJournalResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Journal *models.Journal `json:"journal,omitempty"`
}

type GetJournalsResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Journals []models.Journal `json:"journals"`
	Total    int64            `json:"total"`
}

// CreateJournal stores a journal entry with a mood analysis attached.
// Unlike mood check-ins, journals have no daily cap.
func CreateJournal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireAuth(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(CreateJournalResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateJournalResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateJournalResponse{Success: false, Message: "Content is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	analysis := moodService.Analyze(ctx, req.Content, models.MoodContext{})
	collector.RecordMoodAnalysis(string(analysis.Source), analysis.Attempts)

	now := time.Now().UTC()
	journal := &models.Journal{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID.String(),
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Analysis:  analysis,
	}

	if err := contentStore.InsertJournal(ctx, journal); err != nil {
		log.Printf("ERROR: failed to insert journal: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(CreateJournalResponse{Success: false, Message: "Failed to create journal"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateJournalResponse{
		Success: true,
		Message: "Journal created",
		Journal: journal,
	})
}

// GetJournals returns the authenticated user's journals, newest first.
func GetJournals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireAuth(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(GetJournalsResponse{Success: false, Message: "Authentication required", Journals: []models.Journal{}})
		return
	}

	limit, skip := parsePagination(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	journals, total, err := contentStore.ListJournals(ctx, userID.String(), limit, skip)
	if err != nil {
		log.Printf("ERROR: failed to list journals: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(GetJournalsResponse{Success: false, Message: "Failed to fetch journals", Journals: []models.Journal{}})
		return
	}

	if journals == nil {
		journals = []models.Journal{}
	}
	json.NewEncoder(w).Encode(GetJournalsResponse{Success: true, Journals: journals, Total: total})
}
