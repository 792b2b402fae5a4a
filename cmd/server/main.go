package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evermind-app/evermind-backend/internal/config"
	"github.com/evermind-app/evermind-backend/internal/database"
	"github.com/evermind-app/evermind-backend/internal/handlers"
	"github.com/evermind-app/evermind-backend/internal/metrics"
	"github.com/evermind-app/evermind-backend/internal/middleware"
	"github.com/evermind-app/evermind-backend/internal/routes"
	"github.com/evermind-app/evermind-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (users + violations)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	if err := database.InitPostgresTables(); err != nil {
		log.Fatal("Failed to initialize PostgreSQL tables:", err)
	}
	log.Println("✅ PostgreSQL tables ready")

	// Connect to Redis (sessions, edge rate limits, moderation feed)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (posts, comments, mood entries, journals)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo()

	if err := database.EnsureContentIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB content indexes ensured")
	}

	// Build the content-trust engine
	store := services.NewMongoStore(database.DB)
	scorer := services.NewContentScorer()
	gate := services.NewModerationGate(
		services.NewRateLimiter(store),
		scorer,
		services.NewBehaviorScorer(store, scorer),
	)

	// Mood scoring: external model when credentials are present, lexicon
	// fallback otherwise.
	var external services.ExternalMoodAnalyzer
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiAnalyzer(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("⚠️  WARNING: failed to initialize Gemini client: %v", err)
			log.Println("   Mood scoring will use the built-in fallback analyzer")
		} else {
			external = gemini
			log.Printf("✅ Gemini mood scoring enabled (model: %s)", cfg.GeminiModel)
		}
	} else {
		log.Println("Warning: GEMINI_API_KEY not set. Mood scoring will use the built-in fallback analyzer")
	}
	moodService := services.NewMoodScoringService(store, external, cfg.MoodMaxAttempts)

	// Real-time moderation feed for admin dashboards
	feed := services.NewModerationFeed(database.RedisClient)
	feed.Start(context.Background())
	log.Println("✅ Moderation event feed started")

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	if cfg.AdminAPIToken == "" {
		log.Println("⚠️  WARNING: ADMIN_API_TOKEN not set. Admin endpoints will be unavailable.")
	}

	handlers.Init(
		services.NewSessionService(database.RedisClient),
		store,
		gate,
		moodService,
		feed,
		collector,
		cfg.AdminAPIToken,
	)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Scored writes hit the external model; keep them on a tighter budget
	r.Use(middleware.AIRateLimit)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	r.Handle("/metrics", metrics.Handler(registry))

	routes.SetupRoutes(r)

	log.Printf("🚀 Evermind backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
