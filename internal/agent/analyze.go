package agent

import (
	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// Aggregation constants.
const (
	rawToOverallScale = 10.0
	// extraFindingBonus raises the overall score per finding beyond the
	// first; several independent tactics on one page compound risk.
	extraFindingBonus = 3.0
	maxOverallScore   = 100.0
)

// severityWeights weight findings in the overall score.
var severityWeights = map[domain.Severity]float64{
	domain.SeverityHigh:   1.0,
	domain.SeverityMedium: 0.75,
	domain.SeverityLow:    0.5,
}

// recommendations keyed by risk bucket.
var recommendations = map[domain.RiskLevel]string{
	domain.RiskSafe:    "No manipulative patterns detected on this page.",
	domain.RiskCaution: "A few mild persuasion tactics are present. Take claims of urgency or popularity with a grain of salt.",
	domain.RiskWarning: "Several manipulative tactics detected. Verify prices and claims independently before acting.",
	domain.RiskDanger:  "This page uses aggressive manipulation. Do not make decisions under its pressure; compare offers elsewhere.",
}

// Analyze folds findings into an aggregate result: per-tactic average
// scores, a severity-weighted overall score on the 0-100 scale, a risk
// bucket, and a recommendation. An empty finding set is a valid safe
// outcome, not an error.
func (a *SurfaceAgent) Analyze(findings []domain.Finding) *domain.AggregateResult {
	result := &domain.AggregateResult{
		Agent:     a.key,
		Findings:  findings,
		Breakdown: map[domain.TacticType]float64{},
	}
	if len(findings) == 0 {
		result.Findings = []domain.Finding{}
		result.RiskLevel = domain.RiskSafe
		result.Recommendation = recommendations[domain.RiskSafe]
		if a.telemetry != nil {
			a.telemetry.Metrics.RiskLevelTotal.WithLabelValues(a.key, string(domain.RiskSafe)).Inc()
		}
		return result
	}

	sums := map[domain.TacticType]float64{}
	counts := map[domain.TacticType]int{}
	var weightedSum, weightTotal float64
	for _, f := range findings {
		sums[f.Tactic] += f.Score
		counts[f.Tactic]++
		w := severityWeights[f.Severity]
		weightedSum += f.Score * w
		weightTotal += w
	}
	for tactic, sum := range sums {
		result.Breakdown[tactic] = sum / float64(counts[tactic])
	}

	overall := weightedSum / weightTotal * rawToOverallScale
	overall += extraFindingBonus * float64(len(findings)-1)
	if overall > maxOverallScore {
		overall = maxOverallScore
	}

	result.OverallScore = overall
	result.RiskLevel = domain.RiskForScore(overall)
	result.Recommendation = recommendations[result.RiskLevel]

	if a.telemetry != nil {
		a.telemetry.Metrics.RiskLevelTotal.WithLabelValues(a.key, string(result.RiskLevel)).Inc()
	}
	return result
}
