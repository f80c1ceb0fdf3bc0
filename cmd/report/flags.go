package main

import (
	"strings"

	"github.com/spf13/cobra"

	"trading-report/internal/store"
)

// overrides are flag values that take precedence over the config file
type overrides struct {
	symbol    string
	date      string
	outputDir string
	backend   string
	fixture   string
}

func (o *overrides) register(cmd *cobra.Command, withSymbol bool) {
	if withSymbol {
		cmd.Flags().StringVarP(&o.symbol, "symbol", "s", "", "Stock symbol to analyze (default from config)")
	}
	cmd.Flags().StringVarP(&o.date, "date", "d", "", "Analysis date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "o", "", "Directory for generated PDFs")
	cmd.Flags().StringVar(&o.backend, "backend", "", "Analysis backend (SUBPROCESS, HTTP, FIXTURE)")
	cmd.Flags().StringVar(&o.fixture, "fixture", "", "Saved analysis response to replay (implies --backend FIXTURE)")
}

func (o overrides) apply(cfg *store.Config) error {
	if o.symbol != "" {
		cfg.Symbol = o.symbol
	}
	if o.date != "" {
		cfg.Date = o.date
	}
	if o.outputDir != "" {
		cfg.Report.OutputDir = o.outputDir
	}
	if o.fixture != "" {
		cfg.Analysis.FixturePath = o.fixture
		cfg.Analysis.Backend = store.BackendFixture
	}
	if o.backend != "" {
		cfg.Analysis.Backend = strings.ToUpper(o.backend)
	}
	return cfg.Validate()
}
