package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/monitors"
	"go.uber.org/zap"
)

const (
	componentOK          = "ok"
	componentUnavailable = "unavailable"
	componentDisabled    = "disabled"
)

// HealthCheck reports the database (required) and Redis (optional). With
// ?deep=true it also checks the catalog upstream. Only a database failure
// turns the response into a 503.
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	body := gin.H{
		"status":    "ok",
		"message":   "otakulog is running",
		"timestamp": time.Now().Format(time.RFC3339),
		"database":  componentOK,
		"redis":     componentDisabled,
	}

	if err := monitors.CheckDatabase(ctx, h.db, 0); err != nil {
		h.log.Warn("Database health check failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = componentUnavailable
	}

	if h.redis != nil {
		body["redis"] = componentOK
		if err := monitors.CheckRedis(ctx, h.redis, 0); err != nil {
			h.log.Warn("Redis health check failed", zap.Error(err))
			body["redis"] = componentUnavailable
		}
	}

	if c.Query("deep") == "true" && h.catalogURL != "" {
		body["catalog"] = componentOK
		err := monitors.CheckHTTP(ctx, monitors.HTTPCheck{
			URL:     h.catalogURL + "/genres/anime",
			Headers: map[string]string{"Accept": "application/json"},
			Timeout: 5 * time.Second,
		})
		if err != nil {
			h.log.Warn("Catalog health check failed", zap.Error(err))
			body["catalog"] = componentUnavailable
		}
	}

	c.JSON(status, body)
}
