// Package oracle assigns manipulation scores to candidates. Two
// interchangeable scorers implement the same contract: a generative
// scorer backed by an external language-model service, and a
// deterministic heuristic scorer that is always available. Failures
// never surface as errors; they degrade to the heuristic path and are
// tagged on the result.
package oracle

import (
	"context"
	"errors"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// Backend failure sentinels.
var (
	// ErrUnavailable indicates the scoring backend is unreachable.
	ErrUnavailable = errors.New("scoring backend unavailable")
	// ErrQuotaExceeded indicates the backend rejected the call for quota.
	ErrQuotaExceeded = errors.New("scoring backend quota exceeded")
)

// PageContext is the minimal surrounding context passed with a candidate.
type PageContext struct {
	Origin   string
	PageType domain.PageType
	// Excerpt is nearby page text, already truncated by the caller.
	Excerpt string
}

// Result is the tagged outcome of one oracle evaluation. Degraded results
// are valid scores produced by the fallback path, not errors; callers
// must not treat them as fatal.
type Result struct {
	domain.ScoreResult
	// Detected is the backend's advisory boolean. Threshold comparison
	// downstream is authoritative; this is recorded, not obeyed.
	Detected bool
	Degraded bool
	Reason   string
	Scorer   string
}

// Scorer evaluates one candidate with minimal context. Implementations
// never return an error: any internal failure degrades to a usable
// heuristic score with the Degraded tag set.
type Scorer interface {
	Name() string
	Score(ctx context.Context, cand domain.Candidate, page PageContext) Result
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
