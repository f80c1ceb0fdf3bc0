package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", cfg.Symbol)
	assert.Equal(t, BackendSubprocess, cfg.Analysis.Backend)
	assert.Equal(t, "gpt-4o-mini", cfg.Analysis.DeepThinkLLM)
	assert.Equal(t, "gpt-4o-mini", cfg.Analysis.QuickThinkLLM)
	assert.Equal(t, 1, cfg.Analysis.MaxDebateRounds)
	assert.True(t, *cfg.Analysis.OnlineTools)
	assert.Equal(t, ".", cfg.Report.OutputDir)
	assert.True(t, cfg.CompressPDF())

	ac := cfg.AnalysisConfig()
	assert.Equal(t, "openai", ac.LLMProvider)
	assert.True(t, ac.OnlineTools)
}

func TestLoadConfigFromFile(t *testing.T) {
	p := writeConfig(t, `
symbol: NVDA
date: 2025-07-05
analysis:
  backend: http
  endpoint: http://localhost:8000
  deep_think_llm: o4-mini
  max_debate_rounds: 3
  online_tools: false
report:
  output_dir: reports
  page_size: Letter
batch:
  symbols: [AAPL, NVDA, TSLA]
  min_interval_seconds: 10
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "NVDA", cfg.Symbol)
	assert.Equal(t, "2025-07-05", cfg.Date)
	assert.Equal(t, BackendHTTP, cfg.Analysis.Backend)
	assert.Equal(t, "o4-mini", cfg.Analysis.DeepThinkLLM)
	assert.Equal(t, "gpt-4o-mini", cfg.Analysis.QuickThinkLLM)
	assert.Equal(t, 3, cfg.Analysis.MaxDebateRounds)
	assert.False(t, cfg.AnalysisConfig().OnlineTools)
	assert.Equal(t, []string{"AAPL", "NVDA", "TSLA"}, cfg.Batch.Symbols)
	assert.Equal(t, "10s", cfg.BatchInterval().String())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("REPORT_SYMBOL", "TSLA")
	t.Setenv("REPORT_DATE", "2024-12-01")
	t.Setenv("ANALYSIS_BACKEND", "fixture")

	p := writeConfig(t, "analysis:\n  fixture_path: testdata/state.json\n")
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "TSLA", cfg.Symbol)
	assert.Equal(t, "2024-12-01", cfg.Date)
	assert.Equal(t, BackendFixture, cfg.Analysis.Backend)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown backend", "analysis:\n  backend: grpc\n", "invalid analysis.backend"},
		{"http without endpoint", "analysis:\n  backend: HTTP\n", "analysis.endpoint"},
		{"fixture without path", "analysis:\n  backend: FIXTURE\n", "analysis.fixture_path"},
		{"negative rounds", "analysis:\n  max_debate_rounds: -1\n", "max_debate_rounds"},
		{"bad date", "date: 05/07/2025\n", "YYYY-MM-DD"},
		{"bad page size", "report:\n  page_size: A3\n", "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "analysis: [unclosed"))
	require.Error(t, err)
}

func TestRunLogSettings(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.RunLogEnabled())
	assert.Equal(t, "logs", cfg.RunLog.Dir)
	assert.Zero(t, cfg.RunLog.RetentionDays)

	t.Setenv("REPORT_LOG_RETENTION_DAYS", "14")
	p := writeConfig(t, "run_log:\n  enabled: false\n  dir: journal\n")
	cfg, err = LoadConfig(p)
	require.NoError(t, err)
	assert.False(t, cfg.RunLogEnabled())
	assert.Equal(t, "journal", cfg.RunLog.Dir)
	assert.Equal(t, 14, cfg.RunLog.RetentionDays)
}
