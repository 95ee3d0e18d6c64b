package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schedcheck/internal/policy"
	"go.uber.org/zap"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger.Named("health_handler"),
	}
}

// Handle processes GET /health requests.
func (h *HealthHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadyHandler handles readiness check requests.
type ReadyHandler struct {
	policy *policy.Policy
	logger *zap.Logger
}

// NewReadyHandler creates a new ReadyHandler.
func NewReadyHandler(p *policy.Policy, logger *zap.Logger) *ReadyHandler {
	return &ReadyHandler{
		policy: p,
		logger: logger.Named("ready_handler"),
	}
}

// Handle processes GET /ready requests. The service is ready once a valid
// policy is loaded.
func (h *ReadyHandler) Handle(c *gin.Context) {
	if h.policy == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	if err := h.policy.Validate(); err != nil {
		h.logger.Error("policy failed validation", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
