package domain

// RiskLevel buckets an aggregate 0-100 score.
type RiskLevel string

// Risk levels, from benign to severe.
const (
	RiskSafe    RiskLevel = "safe"
	RiskCaution RiskLevel = "caution"
	RiskWarning RiskLevel = "warning"
	RiskDanger  RiskLevel = "danger"
)

// Risk bucket cut points on the 0-100 aggregate score.
const (
	RiskDangerMin  = 70.0
	RiskWarningMin = 40.0
	RiskCautionMin = 15.0
)

// RiskForScore maps an aggregate 0-100 score to its risk bucket.
func RiskForScore(score float64) RiskLevel {
	switch {
	case score >= RiskDangerMin:
		return RiskDanger
	case score >= RiskWarningMin:
		return RiskWarning
	case score >= RiskCautionMin:
		return RiskCaution
	default:
		return RiskSafe
	}
}

// AggregateResult combines one agent's findings for one analysis run
// into a single comparable outcome. Derived, recomputed each run, never
// persisted by the pipeline itself.
type AggregateResult struct {
	Agent          string                 `json:"agent"`
	Findings       []Finding              `json:"findings"`
	OverallScore   float64                `json:"overall_score"` // 0-100
	RiskLevel      RiskLevel              `json:"risk_level"`
	Breakdown      map[TacticType]float64 `json:"breakdown"` // per-type average raw score
	Recommendation string                 `json:"recommendation"`
}
