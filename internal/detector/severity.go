package detector

import "github.com/jonesrussell/persuasion-scanner/internal/domain"

// Decision is the outcome of classifying one scored candidate.
type Decision struct {
	Emit     bool
	Severity domain.Severity
}

// Classify maps a raw 0-10 score to an emission decision and severity
// bucket. The effective threshold is the per-type threshold scaled by
// sensitivity (lower sensitivity = stricter = lower bar). Severity is a
// fixed function of the raw score, independent of the threshold: a
// candidate below threshold yields no finding at all, not a low-severity
// one.
func Classify(score, threshold, sensitivity float64) Decision {
	effective := threshold * sensitivity
	if score < effective {
		return Decision{Emit: false}
	}
	return Decision{
		Emit:     true,
		Severity: domain.SeverityForScore(score),
	}
}
