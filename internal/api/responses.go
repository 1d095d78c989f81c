package api

import (
	"time"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/registry"
)

// AnalyzeRequest represents a request to analyze one content snapshot.
type AnalyzeRequest struct {
	Content  *domain.ContentRecord  `json:"content" binding:"required"`
	Settings *registry.UserSettings `json:"settings"`
}

// AnalyzeResponse represents an analysis response: one aggregate per
// agent that handled the snapshot.
type AnalyzeResponse struct {
	Origin  string                    `json:"origin"`
	Results []*domain.AggregateResult `json:"results"`
	Error   string                    `json:"error,omitempty"`
}

// AgentResponse represents one registered agent for the dashboard.
type AgentResponse struct {
	Key              string              `json:"key"`
	Name             string              `json:"name"`
	SupportedTactics []domain.TacticType `json:"supported_tactics"`
	Enabled          bool                `json:"enabled"`
}

// AgentsListResponse represents the list of registered agents.
type AgentsListResponse struct {
	Agents []AgentResponse `json:"agents"`
	Total  int             `json:"total"`
}

// AgentConfigResponse wraps one agent's current configuration.
type AgentConfigResponse struct {
	Key    string              `json:"key"`
	Config *domain.AgentConfig `json:"config"`
}

// UpdateConfigRequest represents a config replacement request.
type UpdateConfigRequest struct {
	Config *domain.AgentConfig `json:"config" binding:"required"`
}

// OracleHealthResponse reports scoring-backend availability.
type OracleHealthResponse struct {
	Status    string    `json:"status"`
	Degraded  bool      `json:"degraded"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// HistoryResponse represents recent scans for one origin.
type HistoryResponse struct {
	Origin  string        `json:"origin"`
	Records []HistoryItem `json:"records"`
	Total   int           `json:"total"`
}

// HistoryItem is one past scan run.
type HistoryItem struct {
	Agent        string    `json:"agent"`
	Path         string    `json:"path"`
	FindingCount int       `json:"finding_count"`
	OverallScore float64   `json:"overall_score"`
	RiskLevel    string    `json:"risk_level"`
	ScannedAt    time.Time `json:"scanned_at"`
}
