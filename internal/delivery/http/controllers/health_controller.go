package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"devevent/internal/adapters/dbconn"
	"devevent/internal/delivery/http/helpers"
)

// probeTimeout bounds the reconnect attempt made by a health check.
const probeTimeout = 2 * time.Second

// ConnectionProbe reports on and warms the shared database connection.
type ConnectionProbe interface {
	Info() dbconn.ConnectionInfo
	Warm(ctx context.Context) error
}

// HealthResponse is the data of GET /healthz.
type HealthResponse struct {
	Status   string                `json:"status"`
	Database dbconn.ConnectionInfo `json:"database"`
}

type HealthController struct {
	Logger *slog.Logger
	Probe  ConnectionProbe
}

func NewHealthController(logger *slog.Logger, probe ConnectionProbe) *HealthController {
	return &HealthController{Logger: logger, Probe: probe}
}

// Health godoc
// @Summary Health check
// @Description Reports the database connection state. A cold or stale connection is retried once.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Failure 503 {object} helpers.APIResponse "data.status: unavailable"
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if !c.Probe.Info().Ready {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		err := c.Probe.Warm(ctx)
		cancel()
		if err != nil {
			c.Logger.WarnContext(r.Context(), "health check could not connect", "err", err)
		}
	}

	info := c.Probe.Info()
	if !info.Ready {
		helpers.WriteJSONSuccess(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: info})
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok", Database: info})
}
