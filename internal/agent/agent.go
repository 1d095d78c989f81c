// Package agent bundles tactic detectors into surface agents, one per
// content domain. An agent decides applicability, fans detection out
// across its detectors, and folds findings into an aggregate risk result.
package agent

import (
	"context"
	"errors"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// Agent lifecycle errors.
var (
	// ErrNotInitialized is returned when Detect or Shutdown is called on
	// an agent that was never initialized.
	ErrNotInitialized = errors.New("agent not initialized")
	// ErrShutdown is returned when an agent is used after Shutdown.
	ErrShutdown = errors.New("agent is shut down")
)

// state tracks the Uninitialized -> Initialized -> Shutdown machine.
type state int

const (
	stateUninitialized state = iota
	stateInitialized
	stateShutdown
)

// Agent is a named bundle of detectors for one content surface.
type Agent interface {
	// Key is the unique registry identifier ("commerce", "social").
	Key() string
	// Name is the human-readable agent name.
	Name() string
	// SupportedTactics lists the tactic families this agent detects.
	SupportedTactics() []domain.TacticType
	// Initialize wires the agent's detectors with the given config.
	Initialize(cfg *domain.AgentConfig) error
	// Shutdown releases the agent. Idempotent.
	Shutdown() error
	// CanHandle is a pure predicate over the snapshot deciding
	// applicability. It never inspects anything beyond the record.
	CanHandle(content *domain.ContentRecord) bool
	// Detect fans out to all owned detectors and flattens their
	// findings. Best-effort: detector failures are isolated.
	Detect(ctx context.Context, content *domain.ContentRecord) ([]domain.Finding, error)
	// Analyze folds findings into an aggregate result.
	Analyze(findings []domain.Finding) *domain.AggregateResult
	// Config returns a copy of the current configuration.
	Config() *domain.AgentConfig
	// UpdateConfig validates the new config and synchronously replaces
	// the old one via shutdown + re-initialize. Never partially applied.
	UpdateConfig(cfg *domain.AgentConfig) error
}
