package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// ErrConfigNotFound is returned when no config is stored for an agent.
var ErrConfigNotFound = errors.New("agent config not found")

// AgentConfigStore is a sqlite-backed key-value store for per-agent
// configuration. Semantics are get/set with last-write-wins; the
// detection core reads a snapshot at the start of each run.
type AgentConfigStore struct {
	db *sqlx.DB
}

// NewAgentConfigStore creates the store and its schema.
func NewAgentConfigStore(db *sqlx.DB) (*AgentConfigStore, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS agent_configs (
			agent_key  TEXT PRIMARY KEY,
			config     TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create agent_configs schema: %w", err)
	}
	return &AgentConfigStore{db: db}, nil
}

// Get returns the stored config for an agent, or ErrConfigNotFound.
func (s *AgentConfigStore) Get(ctx context.Context, agentKey string) (*domain.AgentConfig, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT config FROM agent_configs WHERE agent_key = ?`, agentKey,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, agentKey)
		}
		return nil, fmt.Errorf("get config for %s: %w", agentKey, err)
	}

	var cfg domain.AgentConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode config for %s: %w", agentKey, err)
	}
	return &cfg, nil
}

// Set stores the config for an agent, replacing any previous value.
func (s *AgentConfigStore) Set(ctx context.Context, agentKey string, cfg *domain.AgentConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config for %s: %w", agentKey, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO agent_configs (agent_key, config, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(agent_key) DO UPDATE SET
			config = excluded.config,
			updated_at = CURRENT_TIMESTAMP
	`, agentKey, string(raw))
	if err != nil {
		return fmt.Errorf("set config for %s: %w", agentKey, err)
	}
	return nil
}

// Delete removes the stored config for an agent. Deleting a missing key
// is a no-op.
func (s *AgentConfigStore) Delete(ctx context.Context, agentKey string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM agent_configs WHERE agent_key = ?`, agentKey,
	); err != nil {
		return fmt.Errorf("delete config for %s: %w", agentKey, err)
	}
	return nil
}

// Keys lists all agent keys with stored configs.
func (s *AgentConfigStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys,
		`SELECT agent_key FROM agent_configs ORDER BY agent_key`,
	); err != nil {
		return nil, fmt.Errorf("list config keys: %w", err)
	}
	return keys, nil
}
