package handlers

import (
	"context"
	"net/http"
	"time"

	"admin-console/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const serviceName = "admin-console"

// HealthCheck provides a health check endpoint
// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC(),
	})
}

// Readiness reports whether the optional dependencies answer.
type Readiness struct {
	Redis  *redis.Client
	Events *events.Publisher
}

// ReadinessCheck provides a readiness check endpoint
// @Summary Readiness check
// @Description Check if the service is ready to handle requests
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (r Readiness) ReadinessCheck(c *gin.Context) {
	checks := gin.H{"redis": "disabled", "nats": "disabled"}
	ready := true

	if r.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := r.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
			ready = false
		} else {
			checks["redis"] = "connected"
		}
	}
	if r.Events.Enabled() {
		if r.Events.IsConnected() {
			checks["nats"] = "connected"
		} else {
			checks["nats"] = "reconnecting"
		}
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"service":   serviceName,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}
