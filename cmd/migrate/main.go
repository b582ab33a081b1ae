package main

import (
	"flag"
	"os"

	"github.com/publishing-api/internal/config"
	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/pkg/logger"
)

// Usage: migrate [-path ./migrations] up|down
func main() {
	path := flag.String("path", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	flag.Parse()

	cfg, err := config.LoadForMigrations()
	if err != nil {
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	migrationsPath := cfg.Server.MigrationsPath
	if *path != "" {
		migrationsPath = *path
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	switch direction {
	case "up":
		err = db.RunMigrations(migrationsPath)
	case "down":
		err = db.MigrateDown(migrationsPath)
	default:
		log.Error().Str("direction", direction).Msg("Unknown direction, expected up or down")
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
