package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"herald/internal/auth"
	"herald/internal/config"
	"herald/internal/fixtures"
	"herald/internal/handler"
	"herald/internal/middleware"
	"herald/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// keepLogFiles bounds rotation when LOG_DIR is set.
const keepLogFiles = 5

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stdout
	if cfg.LogDir != "" {
		f, err := config.OpenLogFile(cfg.LogDir, keepLogFiles)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOutput = f
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"demo_member", cfg.DemoMemberID,
	)

	// Seed the in-memory store from the embedded fixture feed
	seed, err := fixtures.Load()
	if err != nil {
		log.Fatalf("Failed to load fixture feed: %v", err)
	}
	feedStore, err := store.New(seed, logger)
	if err != nil {
		log.Fatalf("Failed to build feed store: %v", err)
	}
	logger.Info("feed store seeded", "messages", len(seed))

	// Member tokens are HS256 with a shared secret; inboxctl mints
	// compatible ones from the same TOKEN_SECRET.
	verifier := auth.NewHMACVerifier(cfg.TokenSecret, logger)

	// Create handlers
	inboxHandler := handler.NewInboxHandler(feedStore, logger)
	liveHandler := handler.NewLiveHandler(feedStore, logger)
	pageHandler, err := handler.NewPageHandler(feedStore, cfg.DemoMemberID, logger)
	if err != nil {
		log.Fatalf("Failed to create page handler: %v", err)
	}

	logger.Info("services initialized")

	// JSON API routes (Go 1.22+ enhanced patterns, bearer token required)
	api := http.NewServeMux()
	api.HandleFunc("GET /api/inbox/messages", inboxHandler.ListMessages)
	api.HandleFunc("GET /api/inbox/messages/{id}", inboxHandler.GetMessage)
	api.HandleFunc("POST /api/inbox/messages/{id}/read", inboxHandler.MarkRead)
	api.HandleFunc("POST /api/inbox/read-all", inboxHandler.MarkAllRead)
	api.HandleFunc("GET /api/inbox/unread-count", inboxHandler.GetUnreadCount)
	api.HandleFunc("GET /api/inbox/preferences", inboxHandler.GetPreferences)
	api.HandleFunc("PATCH /api/inbox/preferences", inboxHandler.UpdatePreferences)
	api.HandleFunc("GET /api/inbox/live", liveHandler.Stream)

	// Root router: the token check wraps the API only; demo pages act
	// as the fixed demo member without one.
	mux := http.NewServeMux()
	mux.Handle("/api/", middleware.MemberToken(verifier, logger)(api))

	// Health check
	mux.HandleFunc("GET /health", inboxHandler.HealthCheck)

	// Demo pages
	mux.HandleFunc("GET /{$}", pageHandler.Inbox)
	mux.HandleFunc("GET /messages/{id}", pageHandler.Message)
	mux.HandleFunc("POST /messages/{id}/read", pageHandler.MarkRead)
	mux.HandleFunc("POST /read-all", pageHandler.MarkAllRead)
	mux.HandleFunc("GET /out", pageHandler.Outbound)

	// Build middleware chain
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	// CORS - outermost so OPTIONS pre-flight requests are handled
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived live streams
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
