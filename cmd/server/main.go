package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/api"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/config"
	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/repository"
	"github.com/publishing-api/internal/service"
	"github.com/publishing-api/internal/viewcount"
	"github.com/publishing-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting publishing API server...")

	if os.Getenv("ENV") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Server.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize asset storage
	store, err := assets.New(context.Background(), cfg.Assets, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize asset storage")
	}

	views, closeViews := newViewWindow(cfg.Views, log)
	defer closeViews()

	// Initialize services
	services := service.NewServices(repos, store, views, log)

	// Initialize router
	router := api.NewRouter(services, store, auth.NewJWTAuthenticator(cfg.Auth.JWTSecret), log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// newViewWindow uses Redis when REDIS_URL is set so dedup is shared across
// instances, and falls back to an in-process window otherwise.
func newViewWindow(cfg config.ViewsConfig, log zerolog.Logger) (viewcount.Window, func()) {
	if cfg.RedisURL != "" {
		w, err := viewcount.NewRedisWindow(cfg.RedisURL, cfg.Window)
		if err == nil {
			log.Info().Dur("window", cfg.Window).Msg("View dedup backed by Redis")
			return w, func() { _ = w.Close() }
		}
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory view dedup")
	}
	return viewcount.NewMemoryWindow(cfg.MaxKeys, cfg.Window), func() {}
}
