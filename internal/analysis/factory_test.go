package analysis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-report/internal/analysis/bridge"
	"trading-report/internal/credentials"
	"trading-report/internal/store"
	"trading-report/internal/types"
)

func TestNewFixtureBackend(t *testing.T) {
	cfg := store.Default()
	cfg.Analysis.Backend = store.BackendFixture
	cfg.Analysis.FixturePath = filepath.Join("fixture", "testdata", "final_state_nvda.json")

	a, err := New(cfg, credentials.Credentials{})
	require.NoError(t, err)

	_, decision, err := a.Propagate(context.Background(), "NVDA", "2025-07-05", cfg.AnalysisConfig())
	require.NoError(t, err)
	assert.Equal(t, types.DecisionBuy, decision)
}

func TestNewEveryBackend(t *testing.T) {
	for _, backend := range []string{store.BackendSubprocess, store.BackendHTTP, store.BackendFixture} {
		cfg := store.Default()
		cfg.Analysis.Backend = backend
		cfg.Analysis.Endpoint = "http://localhost:8000"
		cfg.Analysis.FixturePath = "state.json"

		a, err := New(cfg, credentials.Credentials{})
		require.NoError(t, err, backend)
		assert.NotNil(t, a, backend)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := store.Default()
	cfg.Analysis.Backend = "CARRIER_PIGEON"

	_, err := New(cfg, credentials.Credentials{})
	require.Error(t, err)
}

func TestSubprocessArgs(t *testing.T) {
	cfg := store.Default()
	assert.Equal(t, "python3", cfg.Analysis.Command)
	assert.Equal(t, bridge.Args(), subprocessArgs(cfg), "default runs the embedded bridge")

	cfg.Analysis.Args = []string{"/opt/bridge.py", "--verbose"}
	assert.Equal(t, []string{"/opt/bridge.py", "--verbose"}, subprocessArgs(cfg))
}
