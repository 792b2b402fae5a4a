package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
	"github.com/evermind-app/evermind-backend/internal/services"
	"github.com/evermind-app/evermind-backend/pkg/clientip"
)

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CreatePostResponse struct {
	Success  bool                        `json:"success"`
	Message  string                      `json:"message"`
	Post     *models.Post                `json:"post,omitempty"`
	Decision *services.ModerationDecision `json:"decision,omitempty"`
}

type GetPostsResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Posts   []models.Post `json:"posts"`
	Total   int64         `json:"total"`
}

// CreatePost runs the moderation gate and persists the post when allowed.
func CreatePost(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireAuth(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(CreatePostResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreatePostResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreatePostResponse{Success: false, Message: "Content is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	text := strings.TrimSpace(req.Title + " " + req.Content)
	decision := moderationGate.Decide(ctx, userID.String(), services.ActionTypePost, text)
	collector.RecordDecision(decision.Blocked, string(decision.Reason))

	if decision.Blocked {
		recordBlock(ctx, userID.String(), clientip.FromRequest(r), services.ActionTypePost, decision, text)
		w.WriteHeader(blockStatus(decision.Reason))
		json.NewEncoder(w).Encode(CreatePostResponse{
			Success:  false,
			Message:  decision.Message,
			Decision: &decision,
		})
		return
	}

	now := time.Now().UTC()
	post := &models.Post{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID.String(),
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
	}
	if decision.Content != nil {
		post.SpamScore = decision.Content.Score
		post.IsFlagged = decision.Content.Score >= 50
	}

	if err := contentStore.InsertPost(ctx, post); err != nil {
		log.Printf("ERROR: failed to insert post: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(CreatePostResponse{Success: false, Message: "Failed to create post"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreatePostResponse{
		Success:  true,
		Message:  "Post created",
		Post:     post,
		Decision: &decision,
	})
}

// GetPosts returns the post feed, newest first.
func GetPosts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, skip := parsePagination(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	posts, total, err := contentStore.ListPosts(ctx, limit, skip)
	if err != nil {
		log.Printf("ERROR: failed to list posts: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(GetPostsResponse{Success: false, Message: "Failed to fetch posts", Posts: []models.Post{}})
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}
	json.NewEncoder(w).Encode(GetPostsResponse{Success: true, Posts: posts, Total: total})
}

// recordBlock persists the violation and fans the event out to the admin feed.
// Both are best effort; a blocked decision is already final.
func recordBlock(ctx context.Context, userID, ip string, action services.ActionType, decision services.ModerationDecision, content string) {
	if err := services.RecordViolation(userID, ip, action, decision.Reason, content); err != nil {
		log.Printf("WARNING: failed to record violation: %v", err)
	}
	moderationFeed.Publish(ctx, services.ModerationEvent{
		Type:       "blocked",
		UserID:     userID,
		ActionType: string(action),
		Reason:     string(decision.Reason),
		Message:    decision.Message,
		Timestamp:  time.Now().UTC(),
	})
}

// parsePagination reads limit/skip query parameters with sane bounds.
func parsePagination(r *http.Request) (limit, skip int) {
	limit = 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	return limit, skip
}
