package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/testhelpers"
)

func urgencyCandidate() domain.Candidate {
	return domain.Candidate{
		Text:       "Only 2 left in stock!",
		Tactic:     domain.TacticUrgency,
		Attributes: map[string]float64{"claimed_stock": 2},
	}
}

func newScorer(backend Backend) *GenerativeScorer {
	return NewGenerativeScorer(backend, NewHeuristicScorer(), nil, logger.NewNop())
}

func TestGenerativeScorer_BlendsHeuristic(t *testing.T) {
	backend := testhelpers.NewMockBackend(
		`{"detected": true, "score": 8, "confidence": 0.9, "reasoning": "strong scarcity pressure"}`,
	)
	g := newScorer(backend)

	result := g.Score(context.Background(), urgencyCandidate(), PageContext{})

	require.False(t, result.Degraded)
	assert.Equal(t, "generative", result.Scorer)
	assert.True(t, result.Detected)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	// 75% model score, 25% heuristic corroboration.
	heuristic := NewHeuristicScorer().Score(context.Background(), urgencyCandidate(), PageContext{})
	want := 0.75*8 + 0.25*heuristic.Score
	assert.InDelta(t, want, result.Score, 0.001)
	assert.Equal(t, "strong scarcity pressure", result.Rationale)
}

func TestGenerativeScorer_DegradesOnBackendError(t *testing.T) {
	g := newScorer(testhelpers.NewFailingBackend(ErrUnavailable))

	result := g.Score(context.Background(), urgencyCandidate(), PageContext{})

	assert.True(t, result.Degraded)
	assert.LessOrEqual(t, result.Confidence, 0.7)
	assert.Greater(t, result.Score, 0.0)
	assert.Contains(t, result.Rationale, "degraded mode")
}

func TestGenerativeScorer_DegradesOnQuota(t *testing.T) {
	g := newScorer(testhelpers.NewFailingBackend(ErrQuotaExceeded))

	result := g.Score(context.Background(), urgencyCandidate(), PageContext{})
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Reason, "quota")
}

func TestGenerativeScorer_DegradesOnUnparseableResponse(t *testing.T) {
	g := newScorer(testhelpers.NewMockBackend("I cannot help with that request."))

	result := g.Score(context.Background(), urgencyCandidate(), PageContext{})
	assert.True(t, result.Degraded)
	assert.Equal(t, "response unparseable", result.Reason)
}

func TestGenerativeScorer_NilBackendDegrades(t *testing.T) {
	g := newScorer(nil)

	result := g.Score(context.Background(), urgencyCandidate(), PageContext{})
	assert.True(t, result.Degraded)
	assert.Equal(t, "backend not configured", result.Reason)
}

func TestGenerativeScorer_DegradedMatchesHeuristicScore(t *testing.T) {
	g := newScorer(testhelpers.NewFailingBackend(errors.New("connection refused")))
	h := NewHeuristicScorer()

	degraded := g.Score(context.Background(), urgencyCandidate(), PageContext{})
	direct := h.Score(context.Background(), urgencyCandidate(), PageContext{})

	assert.InDelta(t, direct.Score, degraded.Score, 0.001)
}

func TestBuildPrompt_Bounded(t *testing.T) {
	cand := urgencyCandidate()
	long := make([]rune, 0, 2000)
	for i := 0; i < 2000; i++ {
		long = append(long, 'é')
	}
	cand.Text = string(long)

	prompt := buildPrompt(cand, PageContext{PageType: domain.PageTypeProduct})
	assert.LessOrEqual(t, len(prompt), maxPromptBytes)
	// Truncation must not split a rune.
	for _, r := range prompt {
		assert.NotEqual(t, '�', r)
	}
}

func TestDegradeReason_Buckets(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"scoring backend quota exceeded", "quota"},
		{"response unparseable", "unparseable"},
		{"backend not configured", "unconfigured"},
		{"connection refused", "backend_error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, degradeReason(tt.reason))
	}
}
