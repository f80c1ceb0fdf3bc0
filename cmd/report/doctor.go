package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trading-report/internal/credentials"
	"trading-report/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check API keys, backend and PDF output before a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.backend, "backend", "", "Analysis backend (SUBPROCESS, HTTP, FIXTURE)")
	cmd.Flags().StringVar(&o.fixture, "fixture", "", "Saved analysis response to check (implies --backend FIXTURE)")
	return cmd
}

func runDoctor(ctx context.Context, o overrides) error {
	cfg, err := loadConfig(ctx, o)
	if err != nil {
		return err
	}

	res := doctor.New(cfg, credentials.FromEnv(), nil).Run(ctx)
	printChecks(res)

	if !res.OK() {
		printDoctorHelp()
		return errors.New("some checks failed")
	}
	fmt.Println()
	printSuccess("All checks passed. You're ready to generate reports.")
	fmt.Println("  Next: trading-report generate --symbol AAPL --date 2024-12-01")
	return nil
}
