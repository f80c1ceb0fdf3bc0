package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trading-report/internal/analysis"
	"trading-report/internal/credentials"
	"trading-report/internal/driver"
	"trading-report/internal/logger"
	"trading-report/internal/report"
	"trading-report/internal/runlog"
	"trading-report/internal/store"
	"trading-report/internal/trace"
)

var configPath string

// initializeSystem loads .env and starts the logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	if trace.Enabled() {
		logger.Debug(context.Background(), "Tracing enabled", "version", version)
	}
	return nil
}

// shutdown flushes spans and buffered log entries
func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(ctx)
	logger.Sync()
}

// loadConfig loads the config file and applies command-line overrides
func loadConfig(ctx context.Context, o overrides) (*store.Config, error) {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", configPath)
		return nil, err
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// credentialsRequired reports whether the backend calls the upstream APIs.
// Replaying a saved analysis does not.
func credentialsRequired(cfg *store.Config) bool {
	return cfg.Analysis.Backend != store.BackendFixture
}

// loadCredentials reads both keys, rejects placeholders and exports them so
// the analysis framework sees the same values.
func loadCredentials(ctx context.Context, cfg *store.Config) (credentials.Credentials, error) {
	creds := credentials.FromEnv()
	if !credentialsRequired(cfg) {
		logger.Debug(ctx, "Skipping credential check for saved analysis", "fixture", cfg.Analysis.FixturePath)
		return creds, nil
	}
	if err := creds.Validate(); err != nil {
		return creds, err
	}
	if err := creds.Apply(); err != nil {
		return creds, err
	}
	logger.Debug(ctx, "Credentials configured", "keys", creds.Masked())
	return creds, nil
}

// initializeDriver wires the configured analysis backend and the PDF renderer
func initializeDriver(ctx context.Context, cfg *store.Config, creds credentials.Credentials) (*driver.Driver, error) {
	analyzer, err := analysis.New(cfg, creds)
	if err != nil {
		return nil, err
	}

	renderer := report.NewPDFRenderer(report.PDFOptions{
		PageSize: cfg.Report.PageSize,
		Compress: cfg.CompressPDF(),
		Author:   cfg.Report.Author,
	})

	logger.Info(ctx, "Driver initialized",
		"backend", cfg.Analysis.Backend,
		"deep_think_llm", cfg.Analysis.DeepThinkLLM,
		"quick_think_llm", cfg.Analysis.QuickThinkLLM,
		"max_debate_rounds", cfg.Analysis.MaxDebateRounds,
		"output_dir", cfg.Report.OutputDir,
	)
	d := driver.New(analyzer, renderer, cfg.AnalysisConfig(), cfg.Report.OutputDir)
	if j := initializeRunLog(ctx, cfg); j != nil {
		d.WithRecorder(j)
	}
	return d, nil
}

// initializeRunLog opens the run journal and compresses files past retention
func initializeRunLog(ctx context.Context, cfg *store.Config) *runlog.Journal {
	if !cfg.RunLogEnabled() {
		return nil
	}
	j := runlog.New(cfg.RunLog.Dir)
	if n, err := j.CompressOlder(cfg.RunLog.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old run logs", "error", err)
	} else if n > 0 {
		logger.Info(ctx, "Compressed old run logs", "files", n, "dir", j.Dir())
	}
	return j
}
