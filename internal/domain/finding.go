package domain

import (
	"time"

	"github.com/google/uuid"
)

// Severity buckets a finding's raw 0-10 score.
type Severity string

// Severity constants, fixed cut points on the raw score.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severity bucket cut points.
const (
	SeverityHighMin   = 7.0
	SeverityMediumMin = 5.0
)

// SeverityForScore maps a raw 0-10 score to its severity bucket,
// independent of any emission threshold.
func SeverityForScore(score float64) Severity {
	switch {
	case score >= SeverityHighMin:
		return SeverityHigh
	case score >= SeverityMediumMin:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ScoreResult is the output of exactly one oracle evaluation of one
// post-dedup candidate.
type ScoreResult struct {
	Score      float64  `json:"score"`      // 0-10
	Confidence float64  `json:"confidence"` // 0-1
	Rationale  string   `json:"rationale"`
	Evidence   []string `json:"evidence"`
}

// Finding is an emitted, user-facing detection result. Immutable once
// created. Identity is a generated opaque id, never content-derived:
// the same text on two pages yields two distinct findings.
type Finding struct {
	ID          string     `json:"id"`
	Tactic      TacticType `json:"tactic"`
	Score       float64    `json:"score"`
	Severity    Severity   `json:"severity"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Rationale   string     `json:"rationale"`
	Evidence    []string   `json:"evidence"`
	DetectedAt  time.Time  `json:"detected_at"`
}

// NewFindingID generates an opaque finding identifier.
func NewFindingID() string {
	return uuid.NewString()
}
