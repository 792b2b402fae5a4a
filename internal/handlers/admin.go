package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/evermind-app/evermind-backend/internal/middleware"
	"github.com/evermind-app/evermind-backend/internal/models"
	"github.com/evermind-app/evermind-backend/internal/services"
)

type GetViolationsResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Violations []models.Violation `json:"violations"`
}

// GetViolations returns recent moderation violations, newest first. Admin only.
func GetViolations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(GetViolationsResponse{Success: false, Message: "Admin token required", Violations: []models.Violation{}})
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	violations, err := services.ListViolations(limit)
	if err != nil {
		log.Printf("ERROR: failed to list violations: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(GetViolationsResponse{Success: false, Message: "Failed to fetch violations", Violations: []models.Violation{}})
		return
	}

	if violations == nil {
		violations = []models.Violation{}
	}
	json.NewEncoder(w).Encode(GetViolationsResponse{Success: true, Violations: violations})
}

type UnblockIPRequest struct {
	IPAddress string `json:"ip_address"`
}

// UnblockIP clears an edge-level IP block. Admin only.
func UnblockIP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Admin token required"})
		return
	}

	var req UnblockIPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IPAddress == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "ip_address is required"})
		return
	}

	if err := middleware.UnblockIP(r.Context(), req.IPAddress); err != nil {
		log.Printf("ERROR: failed to unblock IP %s: %v", req.IPAddress, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Failed to unblock IP"})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "IP unblocked"})
}
