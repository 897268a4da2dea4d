// The user-service binary owns account records. It serves the internal
// /v1/users RPC surface and publishes account_created events.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamflow/platform/internal/core/service"
	"github.com/streamflow/platform/internal/health"
	"github.com/streamflow/platform/internal/infrastructure/config"
	mongodb "github.com/streamflow/platform/internal/infrastructure/db/mongo"
	"github.com/streamflow/platform/internal/infrastructure/queue"
	"github.com/streamflow/platform/internal/userservice"
	"github.com/streamflow/platform/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Service: "user-service",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	repo := mongodb.NewAccountRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account index creation failed")
	}

	broker, err := queue.Connect(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("broker connect failed")
	}
	defer broker.Close()

	publisher := queue.NewPublisher(broker, log)
	svc := service.NewUserService(repo, publisher, log)

	e := userservice.NewRouter(svc, health.NewHandler().WithMongo(db), log)

	go func() {
		if err := e.Start(":" + cfg.Users.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("user service stopped")
		}
	}()
	log.Info().Str("port", cfg.Users.Port).Msg("user service listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
