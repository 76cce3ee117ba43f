// Package health contiene /health_check y /readyz.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type readyResponse struct {
	Status  string `json:"status"` // ready|unavailable
	Version string `json:"version,omitempty"`
	Storage string `json:"storage"`
}

type Controller struct {
	db      Pinger
	version string
	timeout time.Duration
}

func NewController(db Pinger, version string) *Controller {
	return &Controller{db: db, version: version, timeout: 2 * time.Second}
}

func (c *Controller) Register(r chi.Router) {
	r.Get("/health_check", c.HealthCheck)
	r.Get("/readyz", c.Readyz)
}

// HealthCheck responde 200 sin cuerpo mientras el proceso está vivo.
func (c *Controller) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Readyz hace ping al storage.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	resp := readyResponse{Status: "ready", Version: c.version, Storage: "ok"}
	status := http.StatusOK
	if err := c.db.Ping(ctx); err != nil {
		logger.From(ctx).Warn("readiness check failed", logger.Layer("controller"), logger.Err(err))
		resp.Status, resp.Storage = "unavailable", "error"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if c.version != "" {
		w.Header().Set("X-Service-Version", c.version)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
