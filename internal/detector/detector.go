// Package detector wires one candidate extractor, the scoring oracle,
// and the severity classifier into the per-tactic detection pipeline:
// extract, dedupe, score, classify, collect.
package detector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/persuasion-scanner/internal/dedupe"
	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/extractor"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/oracle"
	"github.com/jonesrussell/persuasion-scanner/internal/telemetry"
)

// maxConcurrentScores bounds the oracle fan-out within one detector.
const maxConcurrentScores = 4

// excerptRunes bounds the page excerpt passed as oracle context.
const excerptRunes = 400

// Detector runs detection for one tactic family against one snapshot.
// Implementations return best-effort results: one bad candidate is
// isolated and skipped, never the whole batch.
type Detector interface {
	Tactic() domain.TacticType
	Detect(ctx context.Context, content *domain.ContentRecord, cfg *domain.AgentConfig) []domain.Finding
}

// TacticDetector is the standard Detector implementation.
type TacticDetector struct {
	extractor extractor.Extractor
	dedup     *dedupe.Deduplicator
	scorer    oracle.Scorer
	telemetry *telemetry.Provider
	logger    logger.Logger
}

// New creates a TacticDetector.
func New(
	ext extractor.Extractor,
	dedup *dedupe.Deduplicator,
	scorer oracle.Scorer,
	tp *telemetry.Provider,
	log logger.Logger,
) *TacticDetector {
	return &TacticDetector{
		extractor: ext,
		dedup:     dedup,
		scorer:    scorer,
		telemetry: tp,
		logger:    log,
	}
}

// Tactic returns the tactic family this detector covers.
func (d *TacticDetector) Tactic() domain.TacticType {
	return d.extractor.Tactic()
}

// Detect runs the full per-tactic pipeline. Candidates are scored
// concurrently and rejoined by index, so output order is deterministic
// regardless of oracle completion order.
func (d *TacticDetector) Detect(ctx context.Context, content *domain.ContentRecord, cfg *domain.AgentConfig) []domain.Finding {
	tactic := d.Tactic()

	var span trace.Span
	if d.telemetry != nil {
		ctx, span = d.telemetry.Tracer.Start(ctx, "detector.detect",
			trace.WithAttributes(attribute.String("tactic", string(tactic))))
		defer span.End()
	}

	candidates := d.extractor.Extract(content)
	if d.telemetry != nil {
		d.telemetry.Metrics.CandidatesExtracted.WithLabelValues(string(tactic)).Add(float64(len(candidates)))
	}
	if len(candidates) == 0 {
		return []domain.Finding{}
	}

	deduped := d.dedup.Dedupe(candidates)
	if d.telemetry != nil && len(deduped) < len(candidates) {
		d.telemetry.Metrics.CandidatesDeduped.WithLabelValues(string(tactic)).Add(float64(len(candidates) - len(deduped)))
	}

	page := oracle.PageContext{
		Origin:   content.Origin,
		PageType: content.PageType,
		Excerpt:  excerpt(content.Body),
	}

	results := d.scoreAll(ctx, deduped, page)

	findings := make([]domain.Finding, 0, len(deduped))
	for i, cand := range deduped {
		if results[i] == nil {
			continue // isolated candidate failure, already logged
		}
		if finding := d.classify(cand, *results[i], cfg, content.CapturedAt); finding != nil {
			findings = append(findings, *finding)
		}
	}
	return findings
}

// scoreAll fans candidate scoring out across a bounded worker pool and
// rejoins results by candidate index. A panic while scoring one
// candidate is contained to that slot.
func (d *TacticDetector) scoreAll(ctx context.Context, candidates []domain.Candidate, page oracle.PageContext) []*oracle.Result {
	results := make([]*oracle.Result, len(candidates))
	sem := make(chan struct{}, maxConcurrentScores)
	var wg sync.WaitGroup

	for i, cand := range candidates {
		i, cand := i, cand
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("candidate scoring panicked, skipping candidate",
						logger.String("tactic", string(cand.Tactic)),
						logger.String("panic", fmt.Sprint(r)))
				}
			}()
			result := d.scorer.Score(ctx, cand, page)
			results[i] = &result
		}()
	}
	wg.Wait()
	return results
}

// classify applies thresholding and builds the finding for an emitted
// candidate.
func (d *TacticDetector) classify(
	cand domain.Candidate,
	result oracle.Result,
	cfg *domain.AgentConfig,
	capturedAt time.Time,
) *domain.Finding {
	decision := Classify(result.Score, cfg.Thresholds[cand.Tactic], cfg.Sensitivity)
	if !decision.Emit {
		return nil
	}

	evidence := append([]string{cand.Text}, result.Evidence...)
	finding := domain.Finding{
		ID:          domain.NewFindingID(),
		Tactic:      cand.Tactic,
		Score:       result.Score,
		Severity:    decision.Severity,
		Title:       findingTitle(cand.Tactic),
		Description: findingDescription(cand),
		Rationale:   result.Rationale,
		Evidence:    evidence,
		DetectedAt:  capturedAt,
	}

	if d.telemetry != nil {
		d.telemetry.Metrics.FindingsEmitted.WithLabelValues(string(cand.Tactic), string(decision.Severity)).Inc()
	}
	d.logger.Debug("finding emitted",
		logger.String("tactic", string(cand.Tactic)),
		logger.Float64("score", result.Score),
		logger.String("severity", string(decision.Severity)),
		logger.Bool("degraded", result.Degraded))

	return &finding
}

var findingTitles = map[domain.TacticType]string{
	domain.TacticUrgency:        "Artificial urgency",
	domain.TacticAnchoring:      "Price anchoring",
	domain.TacticSocialProof:    "Fabricated social proof",
	domain.TacticFOMO:           "Fear-of-missing-out framing",
	domain.TacticBundling:       "Forced bundling",
	domain.TacticInterface:      "Deceptive interface pattern",
	domain.TacticMisinformation: "Misinformation indicators",
	domain.TacticToxicity:       "Toxic language",
	domain.TacticBias:           "One-sided framing",
}

func findingTitle(tactic domain.TacticType) string {
	if title, ok := findingTitles[tactic]; ok {
		return title
	}
	return string(tactic)
}

func findingDescription(cand domain.Candidate) string {
	text := cand.Text
	if r := []rune(text); len(r) > 120 {
		text = string(r[:120]) + "..."
	}
	if cand.Anchor != "" {
		return fmt.Sprintf("%q (%s)", text, cand.Anchor)
	}
	return fmt.Sprintf("%q", text)
}

// excerpt returns the head of the body text for oracle context.
func excerpt(body string) string {
	body = strings.TrimSpace(body)
	r := []rune(body)
	if len(r) > excerptRunes {
		r = r[:excerptRunes]
	}
	return string(r)
}
