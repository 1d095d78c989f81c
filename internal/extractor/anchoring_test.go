package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

func TestAnchoringExtractor_WasNowPair(t *testing.T) {
	got := NewAnchoringExtractor().Extract(record("Was $199, now $39 (80% off)."))
	require.Len(t, got, 1)

	cand := got[0]
	assert.Equal(t, domain.TacticAnchoring, cand.Tactic)
	assert.InDelta(t, 199.0, cand.Attributes["original_price"], 0.001)
	assert.InDelta(t, 39.0, cand.Attributes["sale_price"], 0.001)
	assert.InDelta(t, 80.4, cand.Attributes["discount_pct"], 0.1)
}

func TestAnchoringExtractor_StrikePrice(t *testing.T) {
	got := NewAnchoringExtractor().Extract(record("~~$120~~ $60 while it lasts"))
	require.Len(t, got, 1)
	assert.InDelta(t, 50.0, got[0].Attributes["discount_pct"], 0.001)
}

func TestAnchoringExtractor_PercentOff(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantPct float64
	}{
		{"percent off", "Everything 70% off this weekend.", 70},
		{"save up to", "Save up to 85% on selected items.", 85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAnchoringExtractor().Extract(record(tt.body))
			require.Len(t, got, 1)
			assert.InDelta(t, tt.wantPct, got[0].Attributes["discount_pct"], 0.001)
		})
	}
}

func TestAnchoringExtractor_IgnoresImplausible(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no prices", "Our widgets are built to last."},
		{"rising price is not anchoring", "Was $39, now $199 due to demand."},
		{"percent over 100", "Returns grew 250% last year."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAnchoringExtractor().Extract(record(tt.body))
			for _, cand := range got {
				_, hasDiscount := cand.Attributes["discount_pct"]
				assert.False(t, hasDiscount, "unexpected discount candidate %q", cand.Text)
			}
		})
	}
}
