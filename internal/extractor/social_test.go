package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

func TestMisinformationExtractor(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCand bool
	}{
		{"conspiratorial framing", "They don't want you to know about this remedy.", true},
		{"miracle cure", "This miracle cure works overnight.", true},
		{"absolutist claim", "It never fails, try it yourself.", true},
		{"ordinary health advice", "Drink water and sleep regularly.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMisinformationExtractor().Extract(record(tt.body))
			if tt.wantCand {
				require.Len(t, got, 1)
				assert.Equal(t, domain.TacticMisinformation, got[0].Tactic)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestToxicityExtractor_CountsHits(t *testing.T) {
	got := NewToxicityExtractor().Extract(record("You people are absolute garbage."))
	require.Len(t, got, 1)
	assert.InDelta(t, 2.0, got[0].Attributes["phrase_hits"], 0.001)
}

func TestToxicityExtractor_CleanText(t *testing.T) {
	got := NewToxicityExtractor().Extract(record("I disagree with this take, here is why."))
	assert.Empty(t, got)
}

func TestBiasExtractor_RequiresTwoHits(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCand bool
	}{
		{"dense loaded framing", "The so called experts push their radical agenda.", true},
		{"single charged word", "Critics called the proposal extremist.", false},
		{"neutral reporting", "The committee voted 7 to 2 in favour.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBiasExtractor().Extract(record(tt.body))
			if tt.wantCand {
				require.Len(t, got, 1)
				assert.GreaterOrEqual(t, got[0].Attributes["phrase_hits"], 2.0)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFOMOExtractor(t *testing.T) {
	got := NewFOMOExtractor().Extract(record("Don't miss out on this exclusive offer!"))
	require.Len(t, got, 1)
	assert.Equal(t, domain.TacticFOMO, got[0].Tactic)
}
