package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/internal/models/response"
)

// DatabasePinger is the part of the database handle the health check needs
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and database status
type HealthHandler struct {
	db          DatabasePinger
	environment string
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db DatabasePinger, environment string) *HealthHandler {
	return &HealthHandler{db: db, environment: environment}
}

// HealthCheck always answers 200; the database field carries the pool status
// @Summary Health check
// @Description Process status and database connectivity
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	health := response.HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now(),
		Environment: h.environment,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		health.Database = "disconnected: " + err.Error()
	} else {
		health.Database = "connected"
	}

	c.JSON(http.StatusOK, health)
}
