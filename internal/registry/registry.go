// Package registry owns the set of surface agents: registration,
// lifecycle, and per-run agent selection. A Registry is an explicit
// instance passed to whatever owns a detection run; there is no ambient
// global.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/persuasion-scanner/internal/agent"
	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
)

// ErrDuplicateAgent is returned when two agents register the same key.
// Duplicate registration is a fatal configuration error, never silently
// ignored.
var ErrDuplicateAgent = errors.New("duplicate agent key")

// UserSettings is the per-user view over the registry: global agent
// toggles, domains where scanning is off, and optional per-domain agent
// allowlists.
type UserSettings struct {
	// DisabledAgents globally disables agents by key.
	DisabledAgents map[string]bool `json:"disabled_agents"`
	// DisabledDomains turns scanning off entirely on these domains.
	DisabledDomains []string `json:"disabled_domains"`
	// DomainAgents, when a domain has an entry, restricts that domain to
	// the listed agent keys.
	DomainAgents map[string][]string `json:"domain_agents"`
}

// Registry holds all registered agents in insertion order.
type Registry struct {
	mu          sync.RWMutex
	agents      []agent.Agent
	byKey       map[string]agent.Agent
	configs     map[string]*domain.AgentConfig
	initialized bool
	logger      logger.Logger
}

// New creates an empty registry.
func New(log logger.Logger) *Registry {
	return &Registry{
		byKey:   make(map[string]agent.Agent),
		configs: make(map[string]*domain.AgentConfig),
		logger:  log,
	}
}

// Register adds an agent with its default config. Must be called before
// Initialize.
func (r *Registry) Register(a agent.Agent, defaults *domain.AgentConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[a.Key()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAgent, a.Key())
	}
	r.byKey[a.Key()] = a
	r.agents = append(r.agents, a)
	r.configs[a.Key()] = defaults.Clone()
	r.logger.Info("agent registered", logger.String("agent", a.Key()))
	return nil
}

// Get returns the agent registered under key.
func (r *Registry) Get(key string) (agent.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byKey[key]
	return a, ok
}

// Agents returns all registered agents in insertion order.
func (r *Registry) Agents() []agent.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]agent.Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

// Initialize initializes every registered agent in parallel, joining on
// completion. Idempotent: a second call is a no-op.
func (r *Registry) Initialize() error {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return nil
	}
	agents := make([]agent.Agent, len(r.agents))
	copy(agents, r.agents)
	configs := r.configs
	r.mu.Unlock()

	var g errgroup.Group
	for _, a := range agents {
		a := a
		g.Go(func() error {
			if err := a.Initialize(configs[a.Key()]); err != nil {
				return fmt.Errorf("initialize %q: %w", a.Key(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()
	r.logger.Info("registry initialized", logger.Int("agents", len(agents)))
	return nil
}

// Shutdown shuts every agent down in parallel. Idempotent.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return nil
	}
	agents := make([]agent.Agent, len(r.agents))
	copy(agents, r.agents)
	r.initialized = false
	r.mu.Unlock()

	var g errgroup.Group
	for _, a := range agents {
		g.Go(a.Shutdown)
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("registry shutdown: %w", err)
	}
	r.logger.Info("registry shut down")
	return nil
}

// ActiveAgents filters the registry to agents applicable to one snapshot:
// enabled in their own config, not disabled in the user settings, domain
// not disabled, allowed by any per-domain list, and CanHandle true.
func (r *Registry) ActiveAgents(content *domain.ContentRecord, settings UserSettings) []agent.Agent {
	host := content.Domain()
	for _, d := range settings.DisabledDomains {
		if d == host {
			return []agent.Agent{}
		}
	}
	domainList, hasDomainList := settings.DomainAgents[host]

	active := []agent.Agent{}
	for _, a := range r.Agents() {
		if cfg := a.Config(); cfg != nil && !cfg.Enabled {
			continue
		}
		if settings.DisabledAgents[a.Key()] {
			continue
		}
		if hasDomainList && !containsKey(domainList, a.Key()) {
			continue
		}
		if !a.CanHandle(content) {
			continue
		}
		active = append(active, a)
	}
	return active
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
