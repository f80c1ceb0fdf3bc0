package report

import (
	"fmt"
	"time"

	"trading-report/internal/types"
)

const generatedLayout = "2006-01-02 15:04:05"

// Filename is the fixed output name for a symbol and date
func Filename(symbol, date string) string {
	return fmt.Sprintf("trading_report_%s_%s.pdf", symbol, date)
}

// Build maps the framework's final state into the eight fixed sections.
// Every section is always present; missing fields read "No data available."
func Build(symbol, date string, state *types.FinalState, decision types.Decision, now time.Time) *types.Report {
	if state == nil {
		state = &types.FinalState{}
	}

	label := string(decision)

	return &types.Report{
		Symbol:      symbol,
		Date:        date,
		Decision:    decision,
		GeneratedAt: now,
		Title:       "TradingAgents Analysis Report: " + symbol,
		Sections: []types.Section{
			{
				ID:    types.SectionExecutiveSummary,
				Title: "Executive Summary",
				Summary: []types.SummaryRow{
					{Label: "Stock Symbol", Value: symbol},
					{Label: "Analysis Date", Value: date},
					{Label: "Final Decision", Value: label},
					{Label: "Generated On", Value: now.Format(generatedLayout)},
				},
				Body: label,
			},
			{ID: types.SectionMarket, Title: "Market Analysis", Body: CleanText(state.MarketReport)},
			{ID: types.SectionSentiment, Title: "Sentiment Analysis", Body: CleanText(state.SentimentReport)},
			{ID: types.SectionNews, Title: "News Analysis", Body: CleanText(state.NewsReport)},
			{ID: types.SectionFundamentals, Title: "Fundamentals Analysis", Body: CleanText(state.FundamentalsReport)},
			{
				ID:              types.SectionDebate,
				Title:           "Investment Debate Summary",
				PageBreakBefore: true,
				Subsections: []types.Subsection{
					{Title: "Judge Decision", Body: CleanText(state.InvestmentDebateState.JudgeDecision)},
					{Title: "Trader Investment Plan", Body: CleanText(state.TraderInvestmentPlan)},
				},
			},
			{
				ID:    types.SectionRisk,
				Title: "Risk Assessment",
				Subsections: []types.Subsection{
					{Title: "Risk Management Decision", Body: CleanText(state.RiskDebateState.JudgeDecision)},
				},
			},
			{ID: types.SectionFinalDecision, Title: "Final Trade Decision", Body: CleanText(state.FinalTradeDecision)},
		},
	}
}
