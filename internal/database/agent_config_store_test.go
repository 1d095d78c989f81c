package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

func newMemoryStore(t *testing.T) *AgentConfigStore {
	t.Helper()
	db, err := NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewAgentConfigStore(db)
	require.NoError(t, err)
	return store
}

func sampleConfig() *domain.AgentConfig {
	return &domain.AgentConfig{
		Enabled:     true,
		Sensitivity: 0.8,
		Thresholds: map[domain.TacticType]float64{
			domain.TacticUrgency: 4.0,
		},
		DenyDomains: []string{"example.com"},
	}
}

func TestAgentConfigStore_SetGet(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "commerce", sampleConfig()))

	got, err := store.Get(ctx, "commerce")
	require.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.InDelta(t, 0.8, got.Sensitivity, 0.001)
	assert.InDelta(t, 4.0, got.Thresholds[domain.TacticUrgency], 0.001)
	assert.Equal(t, []string{"example.com"}, got.DenyDomains)
}

func TestAgentConfigStore_GetMissing(t *testing.T) {
	store := newMemoryStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestAgentConfigStore_SetOverwrites(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "commerce", sampleConfig()))

	updated := sampleConfig()
	updated.Sensitivity = 0.3
	require.NoError(t, store.Set(ctx, "commerce", updated))

	got, err := store.Get(ctx, "commerce")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, got.Sensitivity, 0.001)
}

func TestAgentConfigStore_DeleteAndKeys(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "social", sampleConfig()))
	require.NoError(t, store.Set(ctx, "commerce", sampleConfig()))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"commerce", "social"}, keys)

	require.NoError(t, store.Delete(ctx, "commerce"))
	require.NoError(t, store.Delete(ctx, "commerce"), "deleting twice is a no-op")

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"social"}, keys)
}
