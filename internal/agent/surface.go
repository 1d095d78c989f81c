package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/persuasion-scanner/internal/dedupe"
	"github.com/jonesrussell/persuasion-scanner/internal/detector"
	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/extractor"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/oracle"
	"github.com/jonesrussell/persuasion-scanner/internal/telemetry"
)

// HandlePredicate decides whether a surface agent applies to a snapshot.
// Must be pure over the record value.
type HandlePredicate func(content *domain.ContentRecord) bool

// SurfaceAgent is the standard Agent implementation: a fixed set of
// extractors turned into detectors at Initialize time.
type SurfaceAgent struct {
	key        string
	name       string
	extractors []extractor.Extractor
	canHandle  HandlePredicate
	scorer     oracle.Scorer
	dedup      *dedupe.Deduplicator
	telemetry  *telemetry.Provider
	logger     logger.Logger

	mu        sync.RWMutex
	state     state
	config    *domain.AgentConfig
	detectors []detector.Detector
}

// NewSurfaceAgent creates an agent in the Uninitialized state.
func NewSurfaceAgent(
	key, name string,
	extractors []extractor.Extractor,
	canHandle HandlePredicate,
	scorer oracle.Scorer,
	dedup *dedupe.Deduplicator,
	tp *telemetry.Provider,
	log logger.Logger,
) *SurfaceAgent {
	return &SurfaceAgent{
		key:        key,
		name:       name,
		extractors: extractors,
		canHandle:  canHandle,
		scorer:     scorer,
		dedup:      dedup,
		telemetry:  tp,
		logger:     log.With(logger.String("agent", key)),
	}
}

// Key returns the unique registry identifier.
func (a *SurfaceAgent) Key() string { return a.key }

// Name returns the human-readable agent name.
func (a *SurfaceAgent) Name() string { return a.name }

// SupportedTactics lists the tactic families this agent detects.
func (a *SurfaceAgent) SupportedTactics() []domain.TacticType {
	tactics := make([]domain.TacticType, len(a.extractors))
	for i, ext := range a.extractors {
		tactics[i] = ext.Tactic()
	}
	return tactics
}

// Initialize validates the config and wires the agent's detectors.
func (a *SurfaceAgent) Initialize(cfg *domain.AgentConfig) error {
	if err := cfg.Validate(a.SupportedTactics()); err != nil {
		return fmt.Errorf("initialize agent %q: %w", a.key, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == stateShutdown {
		return fmt.Errorf("initialize agent %q: %w", a.key, ErrShutdown)
	}

	detectors := make([]detector.Detector, len(a.extractors))
	for i, ext := range a.extractors {
		detectors[i] = detector.New(ext, a.dedup, a.scorer, a.telemetry, a.logger)
	}
	a.detectors = detectors
	a.config = cfg.Clone()
	a.state = stateInitialized

	if a.telemetry != nil {
		a.telemetry.Metrics.AgentActive.Inc()
	}
	a.logger.Info("agent initialized",
		logger.Int("detectors", len(detectors)),
		logger.Float64("sensitivity", cfg.Sensitivity))
	return nil
}

// Shutdown releases the agent. Idempotent: shutting down twice is a
// no-op.
func (a *SurfaceAgent) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == stateShutdown {
		return nil
	}
	if a.state == stateUninitialized {
		return fmt.Errorf("shutdown agent %q: %w", a.key, ErrNotInitialized)
	}
	a.detectors = nil
	a.state = stateShutdown
	if a.telemetry != nil {
		a.telemetry.Metrics.AgentActive.Dec()
	}
	a.logger.Info("agent shut down")
	return nil
}

// CanHandle reports whether this agent applies to the snapshot. Pure:
// domain allow/deny from config plus the surface predicate.
func (a *SurfaceAgent) CanHandle(content *domain.ContentRecord) bool {
	a.mu.RLock()
	cfg := a.config
	a.mu.RUnlock()
	if cfg != nil && !cfg.DomainAllowed(content.Domain()) {
		return false
	}
	return a.canHandle(content)
}

// Detect fans out to all detectors concurrently and flattens results in
// detector order, so output is deterministic regardless of completion
// timing. The config is snapshotted once at the start of the run.
func (a *SurfaceAgent) Detect(ctx context.Context, content *domain.ContentRecord) ([]domain.Finding, error) {
	a.mu.RLock()
	if st := a.state; st != stateInitialized {
		a.mu.RUnlock()
		if st == stateShutdown {
			return nil, fmt.Errorf("detect on agent %q: %w", a.key, ErrShutdown)
		}
		return nil, fmt.Errorf("detect on agent %q: %w", a.key, ErrNotInitialized)
	}
	detectors := a.detectors
	cfg := a.config.Clone()
	a.mu.RUnlock()

	start := time.Now()
	perDetector := make([][]domain.Finding, len(detectors))
	g, gctx := errgroup.WithContext(ctx)
	for i, det := range detectors {
		i, det := i, det
		g.Go(func() error {
			perDetector[i] = det.Detect(gctx, content, cfg)
			return nil
		})
	}
	_ = g.Wait() // detectors never return errors; failures are internal

	findings := []domain.Finding{}
	for _, batch := range perDetector {
		findings = append(findings, batch...)
	}

	if a.telemetry != nil {
		a.telemetry.Metrics.AnalysisDuration.WithLabelValues(a.key).Observe(time.Since(start).Seconds())
	}
	a.logger.Debug("detection complete",
		logger.String("origin", content.Origin),
		logger.Int("findings", len(findings)),
		logger.Duration("duration", time.Since(start)))
	return findings, nil
}

// Config returns a copy of the current configuration.
func (a *SurfaceAgent) Config() *domain.AgentConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.config == nil {
		return nil
	}
	return a.config.Clone()
}

// UpdateConfig validates then synchronously replaces the configuration
// via shutdown + re-initialize, so thresholds are never half-applied.
func (a *SurfaceAgent) UpdateConfig(cfg *domain.AgentConfig) error {
	if err := cfg.Validate(a.SupportedTactics()); err != nil {
		return fmt.Errorf("update config for agent %q: %w", a.key, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == stateShutdown {
		return fmt.Errorf("update config for agent %q: %w", a.key, ErrShutdown)
	}

	// Synchronous replace: tear down and rebuild under one lock hold.
	if a.telemetry != nil && a.state == stateInitialized {
		a.telemetry.Metrics.AgentActive.Dec()
	}
	detectors := make([]detector.Detector, len(a.extractors))
	for i, ext := range a.extractors {
		detectors[i] = detector.New(ext, a.dedup, a.scorer, a.telemetry, a.logger)
	}
	a.detectors = detectors
	a.config = cfg.Clone()
	a.state = stateInitialized
	if a.telemetry != nil {
		a.telemetry.Metrics.AgentActive.Inc()
	}
	a.logger.Info("agent config replaced",
		logger.Float64("sensitivity", cfg.Sensitivity))
	return nil
}
