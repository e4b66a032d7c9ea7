package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles the probe endpoints.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// RegisterRoutes registers the probe routes on the engine root.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/ping", h.Ping)
}

// Health reports process health and uptime.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ping is a minimal liveness probe.
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
