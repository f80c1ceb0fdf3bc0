package analysis

import (
	"fmt"
	"net/http"

	"trading-report/internal/analysis/analysisobs"
	"trading-report/internal/analysis/bridge"
	"trading-report/internal/analysis/fixture"
	"trading-report/internal/analysis/remote"
	"trading-report/internal/analysis/subprocess"
	"trading-report/internal/credentials"
	"trading-report/internal/interfaces"
	"trading-report/internal/store"
)

// New builds the configured backend wrapped with observability
func New(cfg *store.Config, creds credentials.Credentials) (interfaces.Analyzer, error) {
	var a interfaces.Analyzer

	switch cfg.Analysis.Backend {
	case store.BackendSubprocess:
		a = subprocess.New(cfg.Analysis.Command, subprocessArgs(cfg), creds)
	case store.BackendHTTP:
		a = remote.New(cfg.Analysis.Endpoint, creds, &http.Client{})
	case store.BackendFixture:
		a = fixture.New(cfg.Analysis.FixturePath)
	default:
		return nil, fmt.Errorf("unsupported analysis backend: %s", cfg.Analysis.Backend)
	}

	return analysisobs.Wrap(a, cfg.AnalysisTimeout()), nil
}

// subprocessArgs falls back to the embedded bridge when no args are configured
func subprocessArgs(cfg *store.Config) []string {
	if len(cfg.Analysis.Args) == 0 {
		return bridge.Args()
	}
	return cfg.Analysis.Args
}
