// Package ops serves the operational HTTP surface: probes and Prometheus metrics.
package ops

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/podcast-bot/internal/lifecycle"
	"github.com/Proton-105/podcast-bot/internal/middleware"
)

// Probes is what the ops routes need from the lifecycle probes.
type Probes interface {
	lifecycle.HealthChecker
	Components(ctx context.Context) map[string]string
}

// NewRouter registers /healthz, /readyz, /version and /metrics.
func NewRouter(probes Probes, version string, log *slog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.GinLogger(log))

	engine.GET("/healthz", liveness(probes))
	engine.GET("/readyz", readiness(probes))
	engine.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

func liveness(probes Probes) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := probes.Liveness(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func readiness(probes Probes) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		response := gin.H{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": probes.Components(ctx),
		}

		if err := probes.Readiness(ctx); err != nil {
			response["status"] = "unavailable"
			response["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}

		response["status"] = "ready"
		c.JSON(http.StatusOK, response)
	}
}
