package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"trading-report/internal/driver"
	"trading-report/internal/logger"
	"trading-report/internal/runlog"
)

func newBatchCmd() *cobra.Command {
	var (
		o       overrides
		symbols []string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate one report per symbol",
		Long: `Generate reports for several symbols on the same date, one after another.
A failed symbol is reported and the remaining symbols still run.

Examples:
  trading-report batch --symbols AAPL,NVDA,TSLA --date 2025-07-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), o, symbols)
		},
	}
	o.register(cmd, false)
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Comma-separated symbols (default batch.symbols from config)")
	return cmd
}

func runBatch(ctx context.Context, o overrides, symbols []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, o)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		symbols = cfg.Batch.Symbols
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols given: use --symbols or set batch.symbols in %s", configPath)
	}

	date, err := driver.ResolveDate(cfg.Date, time.Now())
	if err != nil {
		return err
	}
	printHeader(strings.Join(symbols, ", "), date)

	creds, err := loadCredentials(ctx, cfg)
	if err != nil {
		printKeyHelp()
		return err
	}

	d, err := initializeDriver(ctx, cfg, creds)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" Analyzing %d symbols...", len(symbols))
	s.Start()
	summary, err := driver.NewBatch(d, cfg.BatchInterval()).Run(ctx, symbols, date)
	s.Stop()

	if summary != nil {
		printBatchSummary(summary)
	}
	if cfg.RunLogEnabled() {
		if p, err := runlog.New(cfg.RunLog.Dir).SummarizeDay(time.Now()); err != nil {
			logger.Warn(ctx, "Failed to write daily summary", "error", err)
		} else if p != "" {
			fmt.Printf("Daily summary written: %s\n", p)
		}
	}
	if err != nil {
		return err
	}
	if len(summary.Failed) > 0 {
		printTroubleshooting()
		return fmt.Errorf("%d of %d reports failed", len(summary.Failed), len(symbols))
	}
	return nil
}
