package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/agent"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/testhelpers"
)

func newTestRunner(t *testing.T, store ConfigStore) (*Runner, *Registry) {
	t.Helper()
	reg := newTestRegistry(t)
	require.NoError(t, reg.Initialize())
	return NewRunner(reg, store, nil, logger.NewNop()), reg
}

func TestRunner_AnalyzeProductPage(t *testing.T) {
	runner, _ := newTestRunner(t, nil)

	results, err := runner.Analyze(context.Background(), testhelpers.ProductPage(), UserSettings{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, agent.CommerceAgentKey, result.Agent)
	assert.NotEmpty(t, result.Findings)
	assert.Greater(t, result.OverallScore, 0.0)
	assert.NotEmpty(t, result.Recommendation)
}

func TestRunner_AnalyzeBlankPage(t *testing.T) {
	runner, _ := newTestRunner(t, nil)

	results, err := runner.Analyze(context.Background(), testhelpers.BlankPage(), UserSettings{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunner_InFlightSuppression(t *testing.T) {
	runner, _ := newTestRunner(t, nil)
	content := testhelpers.ProductPage()

	runner.inflight.Store(content.Origin, struct{}{})
	_, err := runner.Analyze(context.Background(), content, UserSettings{})
	assert.ErrorIs(t, err, ErrRunInFlight)

	// A different origin is unaffected.
	other := testhelpers.ProductPage()
	other.Origin = "https://other.example.com"
	_, err = runner.Analyze(context.Background(), other, UserSettings{})
	assert.NoError(t, err)

	// Once the first run clears, the origin is accepted again.
	runner.inflight.Delete(content.Origin)
	_, err = runner.Analyze(context.Background(), content, UserSettings{})
	assert.NoError(t, err)
}

func TestRunner_AppliesStoredConfig(t *testing.T) {
	store := testhelpers.NewMockConfigStore()
	stored := agent.DefaultCommerceConfig()
	stored.Sensitivity = 0.5
	store.Put(agent.CommerceAgentKey, stored)

	runner, reg := newTestRunner(t, store)
	_, err := runner.Analyze(context.Background(), testhelpers.ProductPage(), UserSettings{})
	require.NoError(t, err)

	a, _ := reg.Get(agent.CommerceAgentKey)
	assert.InDelta(t, 0.5, a.Config().Sensitivity, 0.001)
}

func TestRunner_StoreErrorKeepsCurrentConfig(t *testing.T) {
	store := testhelpers.NewMockConfigStore()
	store.Err = assert.AnError

	runner, reg := newTestRunner(t, store)
	_, err := runner.Analyze(context.Background(), testhelpers.ProductPage(), UserSettings{})
	require.NoError(t, err)

	a, _ := reg.Get(agent.CommerceAgentKey)
	assert.InDelta(t, 1.0, a.Config().Sensitivity, 0.001)
}

func TestRunner_ConfigDisabledAgentEmitsNothing(t *testing.T) {
	store := testhelpers.NewMockConfigStore()
	disabled := agent.DefaultCommerceConfig()
	disabled.Enabled = false
	store.Put(agent.CommerceAgentKey, disabled)

	runner, _ := newTestRunner(t, store)
	results, err := runner.Analyze(context.Background(), testhelpers.ProductPage(), UserSettings{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunner_AnalyzeLeavesRecordUntouched(t *testing.T) {
	runner, _ := newTestRunner(t, nil)
	content := testhelpers.ProductPage()
	content.Links = nil
	content.Metadata = nil

	_, err := runner.Analyze(context.Background(), content, UserSettings{})
	require.NoError(t, err)

	assert.Nil(t, content.Links)
	assert.Nil(t, content.Metadata)
}

func TestRunner_InvalidStoredConfigRejected(t *testing.T) {
	store := testhelpers.NewMockConfigStore()
	bad := agent.DefaultCommerceConfig()
	bad.Sensitivity = 5.0
	store.Put(agent.CommerceAgentKey, bad)

	runner, reg := newTestRunner(t, store)
	_, err := runner.Analyze(context.Background(), testhelpers.ProductPage(), UserSettings{})
	require.NoError(t, err)

	a, _ := reg.Get(agent.CommerceAgentKey)
	assert.InDelta(t, 1.0, a.Config().Sensitivity, 0.001)
}

func TestConfigsEqual(t *testing.T) {
	base := agent.DefaultCommerceConfig()

	same := agent.DefaultCommerceConfig()
	assert.True(t, configsEqual(base, same))

	changed := agent.DefaultCommerceConfig()
	changed.Sensitivity = 0.9
	assert.False(t, configsEqual(base, changed))

	denied := agent.DefaultCommerceConfig()
	denied.DenyDomains = []string{"a.com"}
	assert.False(t, configsEqual(base, denied))
}
