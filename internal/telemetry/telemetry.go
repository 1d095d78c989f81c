// Package telemetry provides OpenTelemetry instrumentation for the
// scanner service. It exports Prometheus metrics and provides tracing.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "persuasion-scanner"

// Metrics holds all scanner Prometheus metrics.
type Metrics struct {
	// Pipeline metrics
	CandidatesExtracted *prometheus.CounterVec
	CandidatesDeduped   *prometheus.CounterVec
	FindingsEmitted     *prometheus.CounterVec
	AnalysisDuration    *prometheus.HistogramVec
	RunsSuppressed      prometheus.Counter

	// Oracle metrics
	OracleCalls        *prometheus.CounterVec
	OracleCallDuration prometheus.Histogram
	OracleDegraded     *prometheus.CounterVec

	// Agent metrics
	AgentActive    prometheus.Gauge
	RiskLevelTotal *prometheus.CounterVec
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initPipelineMetrics(m)
	initOracleMetrics(m)
	initAgentMetrics(m)
	return m
}

func initPipelineMetrics(m *Metrics) {
	m.CandidatesExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_candidates_extracted_total",
		Help: "Candidates produced by extractors, per tactic",
	}, []string{"tactic"})

	m.CandidatesDeduped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_candidates_deduped_total",
		Help: "Candidates dropped by deduplication, per tactic",
	}, []string{"tactic"})

	m.FindingsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_findings_emitted_total",
		Help: "Findings emitted after thresholding, per tactic and severity",
	}, []string{"tactic", "severity"})

	m.AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scanner_analysis_duration_seconds",
		Help:    "Time to run one full analysis for one agent",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"agent"})

	m.RunsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scanner_runs_suppressed_total",
		Help: "Analysis triggers dropped because a run was already in flight",
	})
}

func initOracleMetrics(m *Metrics) {
	m.OracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_oracle_calls_total",
		Help: "Oracle scoring calls, by scorer and outcome",
	}, []string{"scorer", "outcome"})

	m.OracleCallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scanner_oracle_call_duration_seconds",
		Help:    "Latency of a single oracle scoring call",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	})

	m.OracleDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_oracle_degraded_total",
		Help: "Oracle calls that fell back to the heuristic scorer, by reason",
	}, []string{"reason"})
}

func initAgentMetrics(m *Metrics) {
	m.AgentActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scanner_agents_active",
		Help: "Agents currently initialized",
	})

	m.RiskLevelTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_risk_level_total",
		Help: "Aggregate results by risk level",
	}, []string{"agent", "risk_level"})
}
