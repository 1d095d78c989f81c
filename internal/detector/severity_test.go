package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		score       float64
		threshold   float64
		sensitivity float64
		wantEmit    bool
		wantSev     domain.Severity
	}{
		{"below threshold", 3.9, 4.0, 1.0, false, ""},
		{"at threshold", 4.0, 4.0, 1.0, true, domain.SeverityLow},
		{"medium severity", 5.5, 4.0, 1.0, true, domain.SeverityMedium},
		{"high severity", 8.5, 4.0, 1.0, true, domain.SeverityHigh},
		{"lower sensitivity lowers the bar", 3.0, 4.0, 0.5, true, domain.SeverityLow},
		{"zero sensitivity emits everything", 0.1, 9.0, 0.0, true, domain.SeverityLow},
		{"severity ignores threshold", 7.2, 7.0, 1.0, true, domain.SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.score, tt.threshold, tt.sensitivity)
			assert.Equal(t, tt.wantEmit, d.Emit)
			if tt.wantEmit {
				assert.Equal(t, tt.wantSev, d.Severity)
			}
		})
	}
}

// Raising the threshold can only suppress findings, never add them.
func TestClassify_ThresholdMonotonic(t *testing.T) {
	score := 5.5
	emitted := 0
	for threshold := 0.0; threshold <= 10.0; threshold += 0.5 {
		if Classify(score, threshold, 1.0).Emit {
			emitted++
		} else {
			// Once suppression starts it must not stop.
			assert.False(t, Classify(score, threshold+0.5, 1.0).Emit)
		}
	}
	assert.Greater(t, emitted, 0)
}

// Sensitivity multiplies the threshold, so lowering it can only widen
// detection, never narrow it.
func TestClassify_SensitivityMonotonic(t *testing.T) {
	score := 5.5
	threshold := 8.0
	prevEmit := false
	for _, sens := range []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1, 0.0} {
		emit := Classify(score, threshold, sens).Emit
		if prevEmit {
			assert.True(t, emit, "lowering sensitivity must not suppress an emitted finding")
		}
		prevEmit = emit
	}
	assert.True(t, prevEmit, "zero sensitivity emits everything above zero")
}
