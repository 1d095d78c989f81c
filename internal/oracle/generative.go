package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/telemetry"
)

// Generative scoring constants.
const (
	generativeName = "generative"

	// maxPromptBytes bounds the prompt for latency and backend quota.
	maxPromptBytes = 1536
	// maxContextBytes bounds the page excerpt inside the prompt.
	maxContextBytes = 512

	// heuristicBlendWeight mixes the deterministic score into a
	// successful generative score as corroboration.
	heuristicBlendWeight = 0.25

	// degradedConfidenceCap limits confidence on the fallback path.
	degradedConfidenceCap = 0.7
)

// GenerativeScorer scores candidates through an external language-model
// backend, with the heuristic scorer as corroboration and fallback. Any
// backend or parsing failure degrades to a heuristic result; Score never
// fails.
type GenerativeScorer struct {
	backend   Backend
	heuristic *HeuristicScorer
	telemetry *telemetry.Provider
	logger    logger.Logger
}

// NewGenerativeScorer creates a generative scorer. backend may be nil,
// in which case every call takes the degraded path.
func NewGenerativeScorer(
	backend Backend,
	heuristic *HeuristicScorer,
	tp *telemetry.Provider,
	log logger.Logger,
) *GenerativeScorer {
	return &GenerativeScorer{
		backend:   backend,
		heuristic: heuristic,
		telemetry: tp,
		logger:    log,
	}
}

// Name identifies this scorer in results and metrics.
func (g *GenerativeScorer) Name() string {
	return generativeName
}

// Score evaluates one candidate. On backend success the normalized
// response is blended with the heuristic score; on any failure the
// heuristic result is returned with the Degraded tag and reduced
// confidence.
func (g *GenerativeScorer) Score(ctx context.Context, cand domain.Candidate, page PageContext) Result {
	if g.backend == nil {
		return g.degraded(ctx, cand, page, "backend not configured")
	}

	start := time.Now()
	raw, err := g.backend.Complete(ctx, buildPrompt(cand, page), truncateBytes(page.Excerpt, maxContextBytes))
	g.observeCall(time.Since(start), err)
	if err != nil {
		g.logger.Warn("oracle backend call failed, degrading to heuristic",
			logger.String("tactic", string(cand.Tactic)),
			logger.Error(err))
		return g.degraded(ctx, cand, page, err.Error())
	}

	parsed, tier, err := NormalizeResponse(raw)
	if err != nil {
		g.logger.Warn("oracle response unparseable, degrading to heuristic",
			logger.String("tactic", string(cand.Tactic)))
		return g.degraded(ctx, cand, page, "response unparseable")
	}

	corroboration := g.heuristic.Score(ctx, cand, page)
	score := clampScore((1-heuristicBlendWeight)*parsed.Score + heuristicBlendWeight*corroboration.Score)

	rationale := parsed.Reasoning
	if rationale == "" {
		rationale = fmt.Sprintf("model scored %s candidate at %.1f", cand.Tactic, parsed.Score)
	}

	evidence := parsed.Evidence
	if len(evidence) == 0 {
		evidence = corroboration.Evidence
	}

	g.logger.Debug("oracle scored candidate",
		logger.String("tactic", string(cand.Tactic)),
		logger.String("tier", tier),
		logger.Float64("score", score),
		logger.Bool("detected", parsed.Detected))

	return Result{
		ScoreResult: domain.ScoreResult{
			Score:      score,
			Confidence: clampConfidence(parsed.Confidence),
			Rationale:  rationale,
			Evidence:   evidence,
		},
		Detected: parsed.Detected,
		Scorer:   generativeName,
	}
}

// degraded runs the heuristic path and tags the result.
func (g *GenerativeScorer) degraded(ctx context.Context, cand domain.Candidate, page PageContext, reason string) Result {
	result := g.heuristic.Score(ctx, cand, page)
	result.Degraded = true
	result.Reason = reason
	result.Scorer = generativeName
	if result.Confidence > degradedConfidenceCap {
		result.Confidence = degradedConfidenceCap
	}
	result.Rationale = fmt.Sprintf("degraded mode (%s): %s", reason, result.Rationale)
	if g.telemetry != nil {
		g.telemetry.Metrics.OracleDegraded.WithLabelValues(degradeReason(reason)).Inc()
	}
	return result
}

func (g *GenerativeScorer) observeCall(elapsed time.Duration, err error) {
	if g.telemetry == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	g.telemetry.Metrics.OracleCalls.WithLabelValues(generativeName, outcome).Inc()
	g.telemetry.Metrics.OracleCallDuration.Observe(elapsed.Seconds())
}

// degradeReason buckets free-text failure reasons for the metric label.
func degradeReason(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "quota"):
		return "quota"
	case strings.Contains(lower, "unparseable"):
		return "unparseable"
	case strings.Contains(lower, "not configured"):
		return "unconfigured"
	default:
		return "backend_error"
	}
}

// buildPrompt renders the scoring prompt, bounded to maxPromptBytes.
func buildPrompt(cand domain.Candidate, page PageContext) string {
	var b strings.Builder
	b.WriteString("Rate the following page text for the manipulation tactic \"")
	b.WriteString(string(cand.Tactic))
	b.WriteString("\" on a ")
	b.WriteString(string(page.PageType))
	b.WriteString(" page. Respond with a JSON object: ")
	b.WriteString(`{"detected": bool, "score": 0-10, "confidence": 0-1, "reasoning": string, "evidence": [string]}.`)
	b.WriteString("\n\nText: ")
	b.WriteString(cand.Text)
	for key, val := range cand.Attributes {
		b.WriteString(fmt.Sprintf("\n%s: %.2f", key, val))
	}
	return truncateBytes(b.String(), maxPromptBytes)
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
