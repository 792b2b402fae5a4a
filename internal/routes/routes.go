package routes

import (
	"github.com/evermind-app/evermind-backend/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes (anonymous, username-only accounts)
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Community routes (moderation-gated writes)
	r.Post("/api/posts", handlers.CreatePost)
	r.Get("/api/posts", handlers.GetPosts)
	r.Post("/api/comments", handlers.CreateComment)
	r.Get("/api/comments", handlers.GetComments)

	// Mood check-in routes (one entry per UTC day)
	r.Post("/api/mood", handlers.CreateMoodEntry)
	r.Get("/api/mood", handlers.GetMoodEntries)

	// Journaling routes
	r.Post("/api/journals", handlers.CreateJournal)
	r.Get("/api/journals", handlers.GetJournals)

	// Admin routes
	r.Get("/api/admin/violations", handlers.GetViolations)
	r.Put("/api/admin/unblock-ip", handlers.UnblockIP)
	r.Get("/api/admin/events", handlers.ModerationEventsWebSocket)
}
