package domain

import (
	"errors"
	"fmt"
)

// Configuration validation errors.
var (
	ErrInvalidConfig = errors.New("invalid agent config")
)

// AgentConfig holds the tunable detection settings for one surface agent.
// Mutated only through an explicit update operation; persisted by an
// external store.
type AgentConfig struct {
	Enabled bool `json:"enabled"`
	// Sensitivity scales emission thresholds. Range [0,1]; lower is
	// stricter: the per-type threshold is multiplied by sensitivity
	// before comparison, so 0.5 halves every threshold.
	Sensitivity float64 `json:"sensitivity"`
	// Thresholds maps tactic type to the minimum raw score (0-10) a
	// candidate must reach before it becomes a finding.
	Thresholds map[TacticType]float64 `json:"thresholds"`
	// AllowDomains, when non-empty, restricts the agent to these domains.
	AllowDomains []string `json:"allow_domains"`
	// DenyDomains always excludes these domains.
	DenyDomains []string `json:"deny_domains"`
}

// Validate checks the config against the set of tactics the owning agent
// supports. A missing threshold is a configuration error, never silently
// defaulted.
func (c *AgentConfig) Validate(supported []TacticType) error {
	if c.Sensitivity < 0 || c.Sensitivity > 1 {
		return fmt.Errorf("%w: sensitivity %.2f outside [0,1]", ErrInvalidConfig, c.Sensitivity)
	}
	for _, tactic := range supported {
		threshold, ok := c.Thresholds[tactic]
		if !ok {
			return fmt.Errorf("%w: missing threshold for tactic %q", ErrInvalidConfig, tactic)
		}
		if threshold < 0 || threshold > 10 {
			return fmt.Errorf("%w: threshold %.2f for tactic %q outside [0,10]", ErrInvalidConfig, threshold, tactic)
		}
	}
	return nil
}

// Clone returns a deep copy so a run-local snapshot cannot observe
// concurrent updates.
func (c *AgentConfig) Clone() *AgentConfig {
	clone := *c
	clone.Thresholds = make(map[TacticType]float64, len(c.Thresholds))
	for k, v := range c.Thresholds {
		clone.Thresholds[k] = v
	}
	clone.AllowDomains = append([]string(nil), c.AllowDomains...)
	clone.DenyDomains = append([]string(nil), c.DenyDomains...)
	return &clone
}

// DomainAllowed reports whether the agent may run on the given domain.
func (c *AgentConfig) DomainAllowed(domain string) bool {
	for _, d := range c.DenyDomains {
		if d == domain {
			return false
		}
	}
	if len(c.AllowDomains) == 0 {
		return true
	}
	for _, d := range c.AllowDomains {
		if d == domain {
			return true
		}
	}
	return false
}
