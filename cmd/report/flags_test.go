package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-report/internal/store"
)

func TestOverridesApply(t *testing.T) {
	cfg := store.Default()
	o := overrides{symbol: "nvda", date: "2025-07-05", outputDir: "out", fixture: "saved.json"}

	require.NoError(t, o.apply(cfg))
	assert.Equal(t, "nvda", cfg.Symbol)
	assert.Equal(t, "2025-07-05", cfg.Date)
	assert.Equal(t, "out", cfg.Report.OutputDir)
	assert.Equal(t, store.BackendFixture, cfg.Analysis.Backend)
	assert.Equal(t, "saved.json", cfg.Analysis.FixturePath)
}

func TestOverridesRejectInvalid(t *testing.T) {
	cfg := store.Default()
	assert.Error(t, overrides{date: "07/05/2025"}.apply(cfg))

	cfg = store.Default()
	assert.Error(t, overrides{backend: "carrier-pigeon"}.apply(cfg))

	cfg = store.Default()
	assert.Error(t, overrides{backend: "http"}.apply(cfg), "HTTP backend needs an endpoint")
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"generate", "batch", "doctor", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	gen, _, _ := root.Find([]string{"generate"})
	for _, f := range []string{"symbol", "date", "output-dir", "backend", "fixture"} {
		assert.NotNil(t, gen.Flags().Lookup(f), f)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}
