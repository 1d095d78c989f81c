package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/telemetry"
)

// ErrRunInFlight is returned when an analysis is triggered for an origin
// that already has a run in progress. The new trigger is dropped, not
// queued; the in-flight run completes undisturbed.
var ErrRunInFlight = errors.New("analysis already in flight for origin")

// ConfigStore is the external key-value store holding per-agent
// configuration. Last write wins; the runner only needs get semantics
// (writes go through the API layer).
type ConfigStore interface {
	Get(ctx context.Context, agentKey string) (*domain.AgentConfig, error)
}

// Runner owns one analysis run per content snapshot: active-agent
// selection, a run-local config snapshot, fan-out, and aggregation.
type Runner struct {
	registry  *Registry
	store     ConfigStore
	telemetry *telemetry.Provider
	logger    logger.Logger

	inflight sync.Map // origin -> struct{}
}

// NewRunner creates a Runner. store may be nil; agents then run on their
// current in-memory configuration.
func NewRunner(reg *Registry, store ConfigStore, tp *telemetry.Provider, log logger.Logger) *Runner {
	return &Runner{
		registry:  reg,
		store:     store,
		telemetry: tp,
		logger:    log,
	}
}

// Analyze runs the full pipeline for one snapshot and returns one
// aggregate per active agent. A second trigger for the same origin while
// a run is in flight returns ErrRunInFlight.
func (r *Runner) Analyze(
	ctx context.Context,
	content *domain.ContentRecord,
	settings UserSettings,
) ([]*domain.AggregateResult, error) {
	// Run on a normalized copy; the caller's record stays untouched.
	content = content.Normalized()

	if _, loaded := r.inflight.LoadOrStore(content.Origin, struct{}{}); loaded {
		if r.telemetry != nil {
			r.telemetry.Metrics.RunsSuppressed.Inc()
		}
		r.logger.Debug("analysis trigger dropped",
			logger.String("origin", content.Origin))
		return nil, fmt.Errorf("%w: %s", ErrRunInFlight, content.Origin)
	}
	defer r.inflight.Delete(content.Origin)

	var span trace.Span
	if r.telemetry != nil {
		ctx, span = r.telemetry.Tracer.Start(ctx, "runner.analyze",
			trace.WithAttributes(attribute.String("origin", content.Origin)))
		defer span.End()
	}

	// Config snapshot: stored configs are applied once at the start of
	// the run and not re-read mid-run, so thresholds stay consistent
	// within one analysis.
	r.applyStoredConfigs(ctx)

	active := r.registry.ActiveAgents(content, settings)
	if len(active) == 0 {
		r.logger.Debug("no active agents for snapshot",
			logger.String("origin", content.Origin),
			logger.String("page_type", string(content.PageType)))
		return []*domain.AggregateResult{}, nil
	}

	start := time.Now()
	results := make([]*domain.AggregateResult, 0, len(active))
	for _, a := range active {
		findings, err := a.Detect(ctx, content)
		if err != nil {
			// Lifecycle errors only; skip the agent, keep the run.
			r.logger.Warn("agent detection skipped",
				logger.String("agent", a.Key()),
				logger.Error(err))
			continue
		}
		results = append(results, a.Analyze(findings))
	}

	r.logger.Info("analysis run complete",
		logger.String("origin", content.Origin),
		logger.Int("agents", len(active)),
		logger.Int("results", len(results)),
		logger.Duration("duration", time.Since(start)))
	return results, nil
}

// applyStoredConfigs replaces each agent's config with the stored one,
// when present and different. Store errors are non-fatal; the agent
// keeps its current config.
func (r *Runner) applyStoredConfigs(ctx context.Context) {
	if r.store == nil {
		return
	}
	for _, a := range r.registry.Agents() {
		stored, err := r.store.Get(ctx, a.Key())
		if err != nil || stored == nil {
			continue
		}
		current := a.Config()
		if current != nil && configsEqual(current, stored) {
			continue
		}
		if err := a.UpdateConfig(stored); err != nil {
			r.logger.Warn("stored config rejected",
				logger.String("agent", a.Key()),
				logger.Error(err))
		}
	}
}

func configsEqual(a, b *domain.AgentConfig) bool {
	if a.Enabled != b.Enabled || a.Sensitivity != b.Sensitivity {
		return false
	}
	if len(a.Thresholds) != len(b.Thresholds) {
		return false
	}
	for k, v := range a.Thresholds {
		if b.Thresholds[k] != v {
			return false
		}
	}
	return stringSlicesEqual(a.AllowDomains, b.AllowDomains) &&
		stringSlicesEqual(a.DenyDomains, b.DenyDomains)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
