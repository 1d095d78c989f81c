package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/persuasion-scanner/internal/telemetry"
)

// SetupRoutes configures all API routes on the given router.
func SetupRoutes(router *gin.Engine, handler *Handler, tp *telemetry.Provider) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if tp != nil {
		router.GET("/metrics", gin.WrapH(tp.Handler()))
	}

	v1 := router.Group("/api/v1")

	v1.POST("/analyze", handler.Analyze) // POST /api/v1/analyze

	agents := v1.Group("/agents")
	agents.GET("", handler.ListAgents)                   // GET /api/v1/agents
	agents.GET("/:key/config", handler.GetAgentConfig)   // GET /api/v1/agents/:key/config
	agents.PUT("/:key/config", handler.UpdateAgentConfig) // PUT /api/v1/agents/:key/config

	v1.GET("/oracle/health", handler.OracleHealth) // GET /api/v1/oracle/health
	v1.GET("/history", handler.GetHistory)         // GET /api/v1/history?origin=...
}
