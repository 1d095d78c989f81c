package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

func TestBundlingExtractor_FormControls(t *testing.T) {
	tests := []struct {
		name       string
		control    domain.FormControl
		wantCand   bool
		wantHidden bool
	}{
		{
			name:     "prechecked subscription",
			control:  domain.FormControl{Kind: "checkbox", Label: "Subscribe to our newsletter", Checked: true},
			wantCand: true,
		},
		{
			name:       "hidden recurring charge",
			control:    domain.FormControl{Kind: "checkbox", Label: "Auto renew my plan", Checked: true, Hidden: true},
			wantCand:   true,
			wantHidden: true,
		},
		{
			name:    "unchecked control ignored",
			control: domain.FormControl{Kind: "checkbox", Label: "Add extended warranty", Checked: false},
		},
		{
			name:    "prechecked but harmless label",
			control: domain.FormControl{Kind: "checkbox", Label: "Remember my address", Checked: true},
		},
		{
			name:    "text input ignored",
			control: domain.FormControl{Kind: "text", Label: "Subscription code", Checked: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := record("")
			content.FormControls = []domain.FormControl{tt.control}

			got := NewBundlingExtractor().Extract(content)
			if !tt.wantCand {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.control.Label, got[0].Text)
			assert.InDelta(t, 1.0, got[0].Attributes["prechecked"], 0.001)
			if tt.wantHidden {
				assert.InDelta(t, 1.0, got[0].Attributes["hidden"], 0.001)
			} else {
				assert.NotContains(t, got[0].Attributes, "hidden")
			}
		})
	}
}

func TestBundlingExtractor_PressureCopy(t *testing.T) {
	got := NewBundlingExtractor().Extract(record("Protection plan added to your order."))
	require.Len(t, got, 1)
	assert.Equal(t, "body", got[0].Anchor)
}

func TestInterfaceExtractor(t *testing.T) {
	content := record("Additional fees may apply at delivery.")
	content.Links = []domain.Link{
		{Text: "No thanks, I like paying full price", Href: "#decline"},
		{Text: "Maybe later", Href: "#dismiss"},
		{Text: "About us", Href: "/about"},
	}

	got := NewInterfaceExtractor().Extract(content)
	require.Len(t, got, 3)

	assert.InDelta(t, 1.0, got[0].Attributes["confirmshame"], 0.001)
	assert.Equal(t, "link", got[0].Anchor)
	assert.Equal(t, "Maybe later", got[1].Text)
	assert.InDelta(t, 1.0, got[2].Attributes["hidden_cost"], 0.001)
}

func TestSocialProofExtractor(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount float64
		wantCand  bool
	}{
		{"viewer counter", "23 people are viewing this right now.", 23, true},
		{"large crowd with commas", "1,204 customers bought this today.", 1204, true},
		{"recent activity ticker", "Someone in Berlin just bought this widget.", 0, true},
		{"popularity claim", "Trending now in kitchenware.", 0, true},
		{"neutral review copy", "Customers report the handle is comfortable.", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSocialProofExtractor().Extract(record(tt.body))
			if !tt.wantCand {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			if tt.wantCount > 0 {
				assert.InDelta(t, tt.wantCount, got[0].Attributes["claimed_count"], 0.001)
			}
		})
	}
}
