package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"trading-report/internal/doctor"
	"trading-report/internal/driver"
	"trading-report/internal/types"
)

var reportContents = []string{
	"Executive Summary with key metrics",
	"Market Analysis (technical indicators, price trends)",
	"Sentiment Analysis (social media, market sentiment)",
	"News Analysis (recent news impact)",
	"Fundamentals Analysis (financial metrics)",
	"Investment Debate Summary",
	"Risk Assessment",
	"Final Trading Decision with detailed reasoning",
}

func printHeader(symbols, date string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("📈 TradingAgents PDF Report Generator")
	fmt.Printf("📊 Stock Symbol: %s\n", symbols)
	fmt.Printf("📅 Analysis Date: %s\n", date)
	fmt.Println()
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printFailure(msg string, err error) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Println()
	red.Printf("✗ %s: %v\n", msg, err)
}

func decisionColor(d types.Decision) *color.Color {
	switch d {
	case types.DecisionBuy:
		return color.New(color.FgGreen, color.Bold)
	case types.DecisionSell:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

func printResult(res *driver.Result) {
	rule := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(rule)
	color.New(color.FgGreen, color.Bold).Println("REPORT GENERATION COMPLETED SUCCESSFULLY!")
	fmt.Println(rule)
	fmt.Printf("📊 Stock Analyzed: %s\n", res.Symbol)
	fmt.Printf("📅 Analysis Date: %s\n", res.Date)
	fmt.Printf("🎯 Final Decision: %s\n", decisionColor(res.Decision).Sprint(string(res.Decision)))
	fmt.Printf("📄 PDF Report: %s\n", res.Path)
	fmt.Printf("⏱  Duration: %s\n", res.Duration.Round(time.Second))
	fmt.Println(rule)
}

func printContents() {
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Println("Report Contents:")
	for _, c := range reportContents {
		fmt.Printf("  • %s\n", c)
	}
}

func printBatchSummary(s *driver.BatchSummary) {
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Printf("Batch results for %s\n", s.Date)
	for _, r := range s.Succeeded {
		fmt.Printf("  %s %-8s %s  %s\n",
			color.GreenString("✓"), r.Symbol, decisionColor(r.Decision).Sprintf("%-4s", r.Decision), r.Path)
	}
	for _, f := range s.Failed {
		fmt.Printf("  %s %-8s %s\n", color.RedString("✗"), f.Symbol, f.Err)
	}
	fmt.Printf("\n%d succeeded, %d failed\n", len(s.Succeeded), len(s.Failed))
}

func printTroubleshooting() {
	yellow := color.New(color.FgYellow, color.Bold)
	fmt.Println()
	yellow.Println("Troubleshooting tips:")
	fmt.Println("  1. Ensure your API keys are valid and have sufficient credits")
	fmt.Println("  2. Check your internet connection")
	fmt.Println("  3. Verify the stock symbol is valid")
	fmt.Println("  4. Make sure the analysis date is not too far in the future")
	fmt.Println("  Run 'trading-report doctor' to check your setup.")
}

func printKeyHelp() {
	yellow := color.New(color.FgYellow, color.Bold)
	fmt.Println()
	yellow.Println("API keys are not configured:")
	fmt.Println("  export FINNHUB_API_KEY=your_actual_key   (free key: https://finnhub.io/)")
	fmt.Println("  export OPENAI_API_KEY=your_actual_key    (https://platform.openai.com/api-keys)")
	fmt.Println("  Or put both in a .env file in the working directory.")
}

func printChecks(res *doctor.Result) {
	rule := strings.Repeat("=", 50)
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Println("TradingAgents Setup Check")
	fmt.Println(rule)
	for _, c := range res.Checks {
		var status string
		switch c.Status {
		case doctor.StatusPass:
			status = color.GreenString("✓ PASS")
		case doctor.StatusFail:
			status = color.RedString("✗ FAIL")
		default:
			status = color.YellowString("⚠ SKIP")
		}
		fmt.Printf("%-18s %s  %s\n", c.Name, status, c.Detail)
	}
	fmt.Println(rule)
}

func printDoctorHelp() {
	yellow := color.New(color.FgYellow, color.Bold)
	fmt.Println()
	yellow.Println("Common solutions:")
	fmt.Println("  - Set FINNHUB_API_KEY and OPENAI_API_KEY in the environment or .env")
	fmt.Println("  - Install the analysis bridge or point analysis.backend at a running service")
	fmt.Println("  - Check internet connectivity")
}
