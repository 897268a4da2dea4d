// The billing-service binary owns invoices. It serves the internal
// /v1/invoices RPC surface and publishes invoice_status_changed events,
// resolving recipient emails through the user service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamflow/platform/internal/billingservice"
	usersclient "github.com/streamflow/platform/internal/clients/users"
	"github.com/streamflow/platform/internal/core/service"
	"github.com/streamflow/platform/internal/health"
	"github.com/streamflow/platform/internal/infrastructure/config"
	mongodb "github.com/streamflow/platform/internal/infrastructure/db/mongo"
	"github.com/streamflow/platform/internal/infrastructure/queue"
	"github.com/streamflow/platform/pkg/logger"
)

const clientTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Service: "billing-service",
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

	repo := mongodb.NewInvoiceRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("invoice index creation failed")
	}

	broker, err := queue.Connect(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("broker connect failed")
	}
	defer broker.Close()

	publisher := queue.NewPublisher(broker, log)
	users := usersclient.NewClient(cfg.Users.URL, clientTimeout)
	svc := service.NewBillingService(repo, publisher, users, log)

	e := billingservice.NewRouter(svc, health.NewHandler().WithMongo(db), log)

	go func() {
		if err := e.Start(":" + cfg.Billing.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("billing service stopped")
		}
	}()
	log.Info().Str("port", cfg.Billing.Port).Msg("billing service listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
