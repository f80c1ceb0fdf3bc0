package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"trading-report/internal/driver"
)

func newGenerateCmd() *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Analyze one symbol and write its PDF report",
		Long: `Run the multi-agent analysis for one stock symbol and trade date and
write the result to trading_report_{SYMBOL}_{DATE}.pdf.

Examples:
  # Analyze NVDA as of a past date
  trading-report generate --symbol NVDA --date 2025-07-05

  # Re-render a saved analysis without calling the framework
  trading-report generate --symbol NVDA --date 2025-07-05 --fixture saved.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), o)
		},
	}
	o.register(cmd, true)
	return cmd
}

func runGenerate(ctx context.Context, o overrides) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, o)
	if err != nil {
		return err
	}
	date, err := driver.ResolveDate(cfg.Date, time.Now())
	if err != nil {
		return err
	}
	printHeader(cfg.Symbol, date)

	creds, err := loadCredentials(ctx, cfg)
	if err != nil {
		printKeyHelp()
		return err
	}
	if credentialsRequired(cfg) {
		printSuccess("API keys configured")
	} else {
		printSuccess("Replaying saved analysis, API keys not required")
	}

	d, err := initializeDriver(ctx, cfg, creds)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Running multi-agent analysis (this may take several minutes)..."
	s.Start()

	res, err := d.Run(ctx, cfg.Symbol, date)
	s.Stop()
	if err != nil {
		printFailure("Report generation failed", err)
		printTroubleshooting()
		return err
	}

	printResult(res)
	printContents()
	return nil
}
