package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/schedcheck/internal/policy"
	"go.uber.org/zap"
)

// NewRouter wires middleware and routes.
func NewRouter(validator FileValidator, p *policy.Policy, maxUploadSize int64, logger *zap.Logger) *gin.Engine {
	validateHandler := NewValidateHandler(validator, maxUploadSize, logger)
	policyHandler := NewPolicyHandler(p)
	healthHandler := NewHealthHandler(logger)
	readyHandler := NewReadyHandler(p, logger)

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware())

	router.GET("/health", healthHandler.Handle)
	router.GET("/ready", readyHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/validate", validateHandler.Handle)
		v1.GET("/policy", policyHandler.Handle)
	}

	return router
}
