package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AgentConfig {
	return &AgentConfig{
		Enabled:     true,
		Sensitivity: 1.0,
		Thresholds: map[TacticType]float64{
			TacticUrgency:   4.0,
			TacticAnchoring: 4.5,
		},
	}
}

func TestAgentConfigValidate(t *testing.T) {
	supported := []TacticType{TacticUrgency, TacticAnchoring}

	tests := []struct {
		name    string
		mutate  func(*AgentConfig)
		wantErr bool
	}{
		{"valid", func(*AgentConfig) {}, false},
		{"sensitivity below range", func(c *AgentConfig) { c.Sensitivity = -0.1 }, true},
		{"sensitivity above range", func(c *AgentConfig) { c.Sensitivity = 1.1 }, true},
		{"missing threshold", func(c *AgentConfig) { delete(c.Thresholds, TacticAnchoring) }, true},
		{"threshold out of range", func(c *AgentConfig) { c.Thresholds[TacticUrgency] = 11 }, true},
		{"negative threshold", func(c *AgentConfig) { c.Thresholds[TacticUrgency] = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate(supported)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAgentConfigClone_Independent(t *testing.T) {
	cfg := validConfig()
	cfg.DenyDomains = []string{"example.com"}

	clone := cfg.Clone()
	clone.Thresholds[TacticUrgency] = 9.9
	clone.DenyDomains[0] = "other.com"

	assert.InDelta(t, 4.0, cfg.Thresholds[TacticUrgency], 0.001)
	assert.Equal(t, "example.com", cfg.DenyDomains[0])
}

func TestDomainAllowed(t *testing.T) {
	tests := []struct {
		name   string
		allow  []string
		deny   []string
		domain string
		want   bool
	}{
		{"no lists allows all", nil, nil, "shop.example.com", true},
		{"deny wins", nil, []string{"shop.example.com"}, "shop.example.com", false},
		{"allow list restricts", []string{"a.com"}, nil, "b.com", false},
		{"allow list matches", []string{"a.com"}, nil, "a.com", true},
		{"deny beats allow", []string{"a.com"}, []string{"a.com"}, "a.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.AllowDomains = tt.allow
			cfg.DenyDomains = tt.deny
			assert.Equal(t, tt.want, cfg.DomainAllowed(tt.domain))
		})
	}
}

func TestContentRecordNormalize(t *testing.T) {
	content := &ContentRecord{Origin: "https://example.com"}
	content.Normalize()

	assert.NotNil(t, content.Headings)
	assert.NotNil(t, content.Links)
	assert.NotNil(t, content.FormControls)
	assert.NotNil(t, content.Metadata)
	assert.Equal(t, PageTypeUnknown, content.PageType)
}

func TestContentRecordNormalized(t *testing.T) {
	content := &ContentRecord{Origin: "https://example.com"}
	norm := content.Normalized()

	assert.NotNil(t, norm.Links)
	assert.NotNil(t, norm.Metadata)
	assert.Equal(t, PageTypeUnknown, norm.PageType)

	// The receiver is left as captured.
	assert.Nil(t, content.Links)
	assert.Nil(t, content.Metadata)
	assert.Empty(t, content.PageType)
}

func TestContentRecordDomain(t *testing.T) {
	tests := []struct {
		origin string
		want   string
	}{
		{"https://shop.example.com", "shop.example.com"},
		{"http://example.com:8080", "example.com"},
		{"https://example.com/path", "example.com"},
		{"example.com", "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			c := &ContentRecord{Origin: tt.origin}
			assert.Equal(t, tt.want, c.Domain())
		})
	}
}
