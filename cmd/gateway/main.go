// The gateway binary serves the external REST surface: it authenticates
// callers, forwards requests to the user and billing services over internal
// RPC, and translates internal codes back to transport statuses.
//
// @title        StreamFlow API Gateway
// @version      1.0
// @description  External REST surface of the StreamFlow platform.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/streamflow/platform/docs"
	billingclient "github.com/streamflow/platform/internal/clients/billing"
	usersclient "github.com/streamflow/platform/internal/clients/users"
	"github.com/streamflow/platform/internal/core/service"
	"github.com/streamflow/platform/internal/gateway"
	"github.com/streamflow/platform/internal/health"
	"github.com/streamflow/platform/internal/infrastructure/config"
	redisdb "github.com/streamflow/platform/internal/infrastructure/db/redis"
	"github.com/streamflow/platform/pkg/logger"
)

const clientTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Service: "gateway",
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

	revocations := redisdb.NewRevocationStore(rdb)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, revocations)

	users := usersclient.NewClient(cfg.Users.URL, clientTimeout)
	billing := billingclient.NewClient(cfg.Billing.URL, clientTimeout)
	auth := service.NewAuthService(users, tokens, log)

	e := gateway.NewRouter(gateway.Deps{
		Auth:    auth,
		Tokens:  tokens,
		Users:   users,
		Billing: billing,
		Probes:  health.NewHandler().WithRedis(rdb),
		Log:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Gateway.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("gateway server stopped")
		}
	}()
	log.Info().Str("port", cfg.Gateway.Port).Msg("gateway listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
