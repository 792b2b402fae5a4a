package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
	"github.com/evermind-app/evermind-backend/internal/services"
	"github.com/evermind-app/evermind-backend/pkg/clientip"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type CreateCommentResponse struct {
	Success  bool                        `json:"success"`
	Message  string                      `json:"message"`
	Comment  *models.Comment             `json:"comment,omitempty"`
	Decision *services.ModerationDecision `json:"decision,omitempty"`
}

type GetCommentsResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Comments []models.Comment `json:"comments"`
	Total    int64            `json:"total"`
}

// CreateComment runs the moderation gate and persists the comment when allowed.
func CreateComment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireAuth(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(CreateCommentResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateCommentResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if _, err := primitive.ObjectIDFromHex(req.PostID); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateCommentResponse{Success: false, Message: "A valid post_id is required"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateCommentResponse{Success: false, Message: "Content is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	decision := moderationGate.Decide(ctx, userID.String(), services.ActionTypeComment, req.Content)
	collector.RecordDecision(decision.Blocked, string(decision.Reason))

	if decision.Blocked {
		recordBlock(ctx, userID.String(), clientip.FromRequest(r), services.ActionTypeComment, decision, req.Content)
		w.WriteHeader(blockStatus(decision.Reason))
		json.NewEncoder(w).Encode(CreateCommentResponse{
			Success:  false,
			Message:  decision.Message,
			Decision: &decision,
		})
		return
	}

	comment := &models.Comment{
		CreatedAt: time.Now().UTC(),
		UserID:    userID.String(),
		PostID:    req.PostID,
		Content:   req.Content,
	}
	if decision.Content != nil {
		comment.SpamScore = decision.Content.Score
		comment.IsFlagged = decision.Content.Score >= 50
	}

	if err := contentStore.InsertComment(ctx, comment); err != nil {
		log.Printf("ERROR: failed to insert comment: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(CreateCommentResponse{Success: false, Message: "Failed to create comment"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateCommentResponse{
		Success:  true,
		Message:  "Comment created",
		Comment:  comment,
		Decision: &decision,
	})
}

// GetComments returns the comments for one post, newest first.
func GetComments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	postID := r.URL.Query().Get("post_id")
	if _, err := primitive.ObjectIDFromHex(postID); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(GetCommentsResponse{Success: false, Message: "A valid post_id is required", Comments: []models.Comment{}})
		return
	}

	limit, skip := parsePagination(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	comments, total, err := contentStore.ListComments(ctx, postID, limit, skip)
	if err != nil {
		log.Printf("ERROR: failed to list comments: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(GetCommentsResponse{Success: false, Message: "Failed to fetch comments", Comments: []models.Comment{}})
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	json.NewEncoder(w).Encode(GetCommentsResponse{Success: true, Comments: comments, Total: total})
}
