package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/andex/events-backend/config"
	"github.com/andex/events-backend/internal/server"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := server.Start(cfg, logger); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
