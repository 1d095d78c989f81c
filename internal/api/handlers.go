package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/persuasion-scanner/internal/database"
	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/oracle"
	"github.com/jonesrussell/persuasion-scanner/internal/registry"
	"github.com/jonesrussell/persuasion-scanner/internal/storage"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Handler handles HTTP requests for the scanner API.
type Handler struct {
	runner      *registry.Runner
	registry    *registry.Registry
	configStore *database.AgentConfigStore
	historyRepo *database.ScanHistoryRepository
	resultSink  *storage.ElasticsearchStorage
	backend     oracle.Backend
	logger      logger.Logger
}

// NewHandler creates a new API handler. configStore, historyRepo,
// resultSink, and backend may each be nil; the matching endpoints then
// report unavailable and persistence is skipped.
func NewHandler(
	runner *registry.Runner,
	reg *registry.Registry,
	configStore *database.AgentConfigStore,
	historyRepo *database.ScanHistoryRepository,
	resultSink *storage.ElasticsearchStorage,
	backend oracle.Backend,
	log logger.Logger,
) *Handler {
	return &Handler{
		runner:      runner,
		registry:    reg,
		configStore: configStore,
		historyRepo: historyRepo,
		resultSink:  resultSink,
		backend:     backend,
		logger:      log,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content.Origin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content.origin is required"})
		return
	}

	settings := registry.UserSettings{}
	if req.Settings != nil {
		settings = *req.Settings
	}

	start := time.Now()
	results, err := h.runner.Analyze(c.Request.Context(), req.Content, settings)
	if err != nil {
		if errors.Is(err, registry.ErrRunInFlight) {
			c.JSON(http.StatusConflict, AnalyzeResponse{
				Origin: req.Content.Origin,
				Error:  err.Error(),
			})
			return
		}
		h.logger.Error("analysis failed",
			logger.String("origin", req.Content.Origin),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, AnalyzeResponse{
			Origin: req.Content.Origin,
			Error:  err.Error(),
		})
		return
	}

	h.persistResults(c.Request.Context(), req.Content, results, time.Since(start))

	c.JSON(http.StatusOK, AnalyzeResponse{
		Origin:  req.Content.Origin,
		Results: results,
	})
}

// persistResults writes scan history and indexes results. Persistence
// failures are logged and never fail the request.
func (h *Handler) persistResults(
	ctx context.Context,
	content *domain.ContentRecord,
	results []*domain.AggregateResult,
	duration time.Duration,
) {
	if h.historyRepo != nil {
		for _, result := range results {
			if err := h.historyRepo.Record(ctx, content, result, duration); err != nil {
				h.logger.Warn("scan history write failed",
					logger.String("origin", content.Origin),
					logger.Error(err))
			}
		}
	}
	if h.resultSink != nil && len(results) > 0 {
		if err := h.resultSink.BulkIndexResults(ctx, content, results); err != nil {
			h.logger.Warn("result indexing failed",
				logger.String("origin", content.Origin),
				logger.Error(err))
		}
	}
}

// ListAgents handles GET /api/v1/agents.
func (h *Handler) ListAgents(c *gin.Context) {
	agents := h.registry.Agents()
	resp := AgentsListResponse{
		Agents: make([]AgentResponse, 0, len(agents)),
		Total:  len(agents),
	}
	for _, a := range agents {
		cfg := a.Config()
		enabled := cfg != nil && cfg.Enabled
		resp.Agents = append(resp.Agents, AgentResponse{
			Key:              a.Key(),
			Name:             a.Name(),
			SupportedTactics: a.SupportedTactics(),
			Enabled:          enabled,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GetAgentConfig handles GET /api/v1/agents/:key/config.
func (h *Handler) GetAgentConfig(c *gin.Context) {
	key := c.Param("key")
	a, ok := h.registry.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown agent: " + key})
		return
	}
	c.JSON(http.StatusOK, AgentConfigResponse{
		Key:    a.Key(),
		Config: a.Config(),
	})
}

// UpdateAgentConfig handles PUT /api/v1/agents/:key/config. The new
// config is validated and applied synchronously, then persisted.
func (h *Handler) UpdateAgentConfig(c *gin.Context) {
	key := c.Param("key")
	a, ok := h.registry.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown agent: " + key})
		return
	}

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.UpdateConfig(req.Config); err != nil {
		if errors.Is(err, domain.ErrInvalidConfig) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("config update failed",
			logger.String("agent", key),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.configStore != nil {
		if err := h.configStore.Set(c.Request.Context(), key, req.Config); err != nil {
			h.logger.Warn("config persistence failed",
				logger.String("agent", key),
				logger.Error(err))
		}
	}

	h.logger.Info("agent config updated", logger.String("agent", key))
	c.JSON(http.StatusOK, AgentConfigResponse{
		Key:    a.Key(),
		Config: a.Config(),
	})
}

// OracleHealth handles GET /api/v1/oracle/health.
func (h *Handler) OracleHealth(c *gin.Context) {
	now := time.Now().UTC()
	if h.backend == nil {
		c.JSON(http.StatusOK, OracleHealthResponse{
			Status:    "degraded",
			Degraded:  true,
			Detail:    "no scoring backend configured; heuristics only",
			CheckedAt: now,
		})
		return
	}

	if err := h.backend.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, OracleHealthResponse{
			Status:    "degraded",
			Degraded:  true,
			Detail:    err.Error(),
			CheckedAt: now,
		})
		return
	}

	c.JSON(http.StatusOK, OracleHealthResponse{
		Status:    "ok",
		CheckedAt: now,
	})
}

// GetHistory handles GET /api/v1/history?origin=...&limit=N.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.historyRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scan history not configured"})
		return
	}

	origin := c.Query("origin")
	if origin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin query parameter is required"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	records, err := h.historyRepo.RecentByOrigin(c.Request.Context(), origin, limit)
	if err != nil {
		h.logger.Error("history query failed",
			logger.String("origin", origin),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := HistoryResponse{
		Origin:  origin,
		Records: make([]HistoryItem, 0, len(records)),
		Total:   len(records),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, HistoryItem{
			Agent:        rec.AgentKey,
			Path:         rec.Path,
			FindingCount: rec.FindingCount,
			OverallScore: rec.OverallScore,
			RiskLevel:    rec.RiskLevel,
			ScannedAt:    rec.ScannedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "persuasion-scanner",
	})
}

// ReadyCheck handles GET /ready. The service is ready once agents are
// registered; persistence layers are optional.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if len(h.registry.Agents()) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "no agents registered",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
