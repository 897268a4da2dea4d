// The notifier binary consumes platform events and sends the corresponding
// emails. It is the only consumer of the topic queues.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/health"
	"github.com/streamflow/platform/internal/infrastructure/config"
	redisdb "github.com/streamflow/platform/internal/infrastructure/db/redis"
	"github.com/streamflow/platform/internal/infrastructure/queue"
	"github.com/streamflow/platform/internal/notifier"
	"github.com/streamflow/platform/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Service: "notifier",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	broker, err := queue.Connect(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("broker connect failed")
	}
	defer broker.Close()

	mailer := notifier.NewLogMailer(log)
	consumer := notifier.NewConsumer(cfg.Rabbit.Workers, redisdb.NewProcessedStore(rdb), log)
	consumer.Register(domain.TopicAccountCreated, notifier.AccountCreatedHandler(mailer))
	consumer.Register(domain.TopicInvoiceStatusChanged, notifier.InvoiceStatusChangedHandler(mailer))

	if err := consumer.Start(ctx, broker); err != nil {
		log.Fatal().Err(err).Msg("consumer start failed")
	}
	log.Info().Int("workers", cfg.Rabbit.Workers).Msg("notifier consuming")

	// Health probes only; the notifier has no API surface.
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	health.Register(e, health.NewHandler().WithRedis(rdb))

	go func() {
		if err := e.Start(":" + cfg.Notifier.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("notifier probe server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	_ = e.Close()
}
