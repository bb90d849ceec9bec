package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rentscope/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for database health checks
	HealthCheckTimeout = 2 * time.Second
)

// Pinger is satisfied by *database.Database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	db        Pinger
	startTime time.Time
	env       string
	source    string
	rows      int
}

// NewHealthHandler creates a HealthHandler. db may be nil when listings come
// from a file; rows is the size of the loaded dataset.
func NewHealthHandler(db Pinger, env, source string, rows int) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
		env:       env,
		source:    source,
		rows:      rows,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Source   string `json:"source"`
	Database string `json:"database,omitempty"`
	Rows     int    `json:"rows"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Source      string `json:"source"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health. It is a liveness check and always returns 200.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready.
// The dataset is loaded before the server starts listening, so readiness only
// depends on the database connection when one is configured.
func (h *HealthHandler) Ready(c *gin.Context) {
	resp := ReadyResponse{
		Status: "ready",
		Source: h.source,
		Rows:   h.rows,
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			if log := middleware.GetLogger(c); log != nil {
				log.Error("Database health check failed", err, map[string]interface{}{
					"timeout": HealthCheckTimeout.String(),
				})
			}
			resp.Status = "not_ready"
			resp.Database = "disconnected"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "connected"
	}

	c.JSON(http.StatusOK, resp)
}

// Info handles GET /api/v1/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Source:      h.source,
		Uptime:      formatUptime(time.Since(h.startTime)),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
