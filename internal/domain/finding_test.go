package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityForScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Severity
	}{
		{"zero", 0, SeverityLow},
		{"just below medium", 4.99, SeverityLow},
		{"medium boundary", 5.0, SeverityMedium},
		{"between buckets", 6.9, SeverityMedium},
		{"high boundary", 7.0, SeverityHigh},
		{"max", 10, SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityForScore(tt.score))
		})
	}
}

func TestRiskForScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  RiskLevel
	}{
		{"zero", 0, RiskSafe},
		{"below caution", 14.9, RiskSafe},
		{"caution boundary", 15, RiskCaution},
		{"warning boundary", 40, RiskWarning},
		{"below danger", 69.9, RiskWarning},
		{"danger boundary", 70, RiskDanger},
		{"max", 100, RiskDanger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskForScore(tt.score))
		})
	}
}

func TestNewFindingID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewFindingID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate finding id %s", id)
		seen[id] = true
	}
}
