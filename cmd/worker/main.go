// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] failed to load")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	if err := checkStartup(cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] health check failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	objects, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("[Storage] failed to initialize")
	}

	srv := setupAsynqServer(cfg, initializeHandlers(objects))

	waitForShutdown(srv)
}

func waitForShutdown(srv *asynqServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] gracefully stopping")
	srv.Shutdown()
}
