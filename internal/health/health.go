// Package health implements the liveness and readiness probes shared by all
// service binaries. Each binary registers the dependency checks it actually
// holds connections for.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Handler serves GET /health (liveness) and GET /health/ready (readiness).
type Handler struct {
	checks map[string]Check
}

func NewHandler() *Handler {
	return &Handler{checks: make(map[string]Check)}
}

// WithCheck registers a named dependency check and returns the handler for
// chaining.
func (h *Handler) WithCheck(name string, check Check) *Handler {
	h.checks[name] = check
	return h
}

// WithMongo registers a MongoDB ping check.
func (h *Handler) WithMongo(db *mongo.Database) *Handler {
	return h.WithCheck("mongodb", func(ctx context.Context) error {
		return db.Client().Ping(ctx, nil)
	})
}

// WithRedis registers a Redis ping check.
func (h *Handler) WithRedis(rdb *redis.Client) *Handler {
	return h.WithCheck("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}

// Liveness returns 200 immediately; confirms the process is alive.
func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness probes every registered dependency before declaring the service
// ready. Any failing check degrades the whole probe to 503.
func (h *Handler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

// Register mounts the probes on an Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/health", h.Liveness)
	e.GET("/health/ready", h.Readiness)
}
