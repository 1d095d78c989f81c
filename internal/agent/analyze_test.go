package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/oracle"
)

func finding(tactic domain.TacticType, score float64) domain.Finding {
	return domain.Finding{
		ID:       domain.NewFindingID(),
		Tactic:   tactic,
		Score:    score,
		Severity: domain.SeverityForScore(score),
	}
}

func analyzeAgent(t *testing.T) *SurfaceAgent {
	t.Helper()
	a := NewCommerceAgent(oracle.NewHeuristicScorer(), nil, logger.NewNop())
	require.NoError(t, a.Initialize(DefaultCommerceConfig()))
	return a
}

func TestAnalyze_EmptyFindingsIsSafe(t *testing.T) {
	result := analyzeAgent(t).Analyze(nil)

	assert.Equal(t, CommerceAgentKey, result.Agent)
	assert.NotNil(t, result.Findings)
	assert.Empty(t, result.Findings)
	assert.Zero(t, result.OverallScore)
	assert.Equal(t, domain.RiskSafe, result.RiskLevel)
	assert.NotEmpty(t, result.Recommendation)
}

func TestAnalyze_SingleFinding(t *testing.T) {
	result := analyzeAgent(t).Analyze([]domain.Finding{
		finding(domain.TacticUrgency, 6.0),
	})

	// One medium finding: weighted mean is the score itself, scaled.
	assert.InDelta(t, 60.0, result.OverallScore, 0.001)
	assert.Equal(t, domain.RiskWarning, result.RiskLevel)
	assert.InDelta(t, 6.0, result.Breakdown[domain.TacticUrgency], 0.001)
}

func TestAnalyze_MultipleFindingsCompound(t *testing.T) {
	single := analyzeAgent(t).Analyze([]domain.Finding{
		finding(domain.TacticUrgency, 6.0),
	})
	double := analyzeAgent(t).Analyze([]domain.Finding{
		finding(domain.TacticUrgency, 6.0),
		finding(domain.TacticAnchoring, 6.0),
	})
	assert.Greater(t, double.OverallScore, single.OverallScore)
}

func TestAnalyze_SeverityWeighting(t *testing.T) {
	a := analyzeAgent(t)
	// Same raw scores, one high and one low severity: the weighted mean
	// leans toward the high-severity finding.
	result := a.Analyze([]domain.Finding{
		finding(domain.TacticUrgency, 8.0),   // high
		finding(domain.TacticAnchoring, 3.0), // low
	})
	// (8*1.0 + 3*0.5) / 1.5 * 10 + 3
	assert.InDelta(t, 66.333, result.OverallScore, 0.01)
}

func TestAnalyze_OverallScoreCapped(t *testing.T) {
	findings := make([]domain.Finding, 0, 12)
	for i := 0; i < 12; i++ {
		findings = append(findings, finding(domain.TacticUrgency, 10.0))
	}
	result := analyzeAgent(t).Analyze(findings)
	assert.InDelta(t, 100.0, result.OverallScore, 0.001)
	assert.Equal(t, domain.RiskDanger, result.RiskLevel)
}

func TestAnalyze_BreakdownAverages(t *testing.T) {
	result := analyzeAgent(t).Analyze([]domain.Finding{
		finding(domain.TacticUrgency, 4.0),
		finding(domain.TacticUrgency, 8.0),
		finding(domain.TacticAnchoring, 5.0),
	})
	assert.InDelta(t, 6.0, result.Breakdown[domain.TacticUrgency], 0.001)
	assert.InDelta(t, 5.0, result.Breakdown[domain.TacticAnchoring], 0.001)
}

func TestAnalyze_RiskBuckets(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  domain.RiskLevel
	}{
		{"low score is caution", 2.0, domain.RiskCaution},
		{"mid score is warning", 5.0, domain.RiskWarning},
		{"high score is danger", 8.0, domain.RiskDanger},
	}
	a := analyzeAgent(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Analyze([]domain.Finding{finding(domain.TacticUrgency, tt.score)})
			assert.Equal(t, tt.want, result.RiskLevel)
		})
	}
}
