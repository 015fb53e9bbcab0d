package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"media-service/config"
	"media-service/internal/app"
	"media-service/internal/logger"
	transport "media-service/internal/transport/echo"
)

func main() {
	// A missing .env is fine in containerized deployments.
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, err := app.InitializeService(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	go service.StartCacheJanitor(ctx)

	server := transport.NewServer(cfg, service, log)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting media service")
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
