package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/palaver-chat/palaver/internal/config"
	httpHandler "github.com/palaver-chat/palaver/internal/delivery/http"
	"github.com/palaver-chat/palaver/internal/delivery/ws"
	"github.com/palaver-chat/palaver/internal/middleware"
	"github.com/palaver-chat/palaver/internal/usecase"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	// Configure logging
	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	// User store
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Initialize dependencies
	auth, err := usecase.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to init auth: %v", err)
	}

	uploads, err := usecase.NewUploadStore(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		log.Fatalf("Failed to init upload store: %v", err)
	}

	hub := ws.NewHub(cfg.MaxMessageSize)
	go hub.Run()

	handler := httpHandler.NewHandler(hub, auth, uploads)

	// Setup routes
	mux := http.NewServeMux()

	// Stored voice/file blobs
	fs := http.FileServer(http.Dir(uploads.Dir()))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", fs))

	// WebSocket route with rate limiting
	mux.HandleFunc("/ws", middleware.RateLimitFunc(middleware.WebSocketLimiter, handler.HandleWebSocket))

	// Auth routes with the strict tier
	mux.HandleFunc("/api/register", middleware.RateLimitFunc(middleware.StrictLimiter, handler.HandleRegister))
	mux.HandleFunc("/api/login", middleware.RateLimitFunc(middleware.StrictLimiter, handler.HandleLogin))

	// API routes with rate limiting
	mux.HandleFunc("/api/upload/voice", middleware.RateLimitFunc(middleware.APILimiter, handler.HandleUploadVoice))
	mux.HandleFunc("/api/upload/file", middleware.RateLimitFunc(middleware.APILimiter, handler.HandleUploadFile))
	mux.HandleFunc("/api/messages", middleware.RateLimitFunc(middleware.APILimiter, handler.HandleMessages))
	mux.HandleFunc("/api/online-users", middleware.RateLimitFunc(middleware.APILimiter, handler.HandleOnlineUsers))

	mux.HandleFunc("/healthz", handler.HandleHealth)

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("palaver relay running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
