package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the analysis date format expected by the framework
const DateLayout = "2006-01-02"

var ErrInvalidDecision = errors.New("invalid decision label")

// Decision is the terminal recommendation produced by the framework
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

// ParseDecision accepts BUY, SELL or HOLD. Only surrounding whitespace is
// trimmed; the label is otherwise kept exactly as returned.
func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.TrimSpace(s))
	switch d {
	case DecisionBuy, DecisionSell, DecisionHold:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDecision, s)
}

// AnalysisConfig is the configuration bag handed to the framework
type AnalysisConfig struct {
	LLMProvider     string `json:"llm_provider"`
	DeepThinkLLM    string `json:"deep_think_llm"`
	QuickThinkLLM   string `json:"quick_think_llm"`
	MaxDebateRounds int    `json:"max_debate_rounds"`
	OnlineTools     bool   `json:"online_tools"`
	Debug           bool   `json:"debug,omitempty"`
}

// InvestDebateState is the bull/bear debate as reported by the framework
type InvestDebateState struct {
	BullHistory     string `json:"bull_history,omitempty"`
	BearHistory     string `json:"bear_history,omitempty"`
	History         string `json:"history,omitempty"`
	CurrentResponse string `json:"current_response,omitempty"`
	JudgeDecision   string `json:"judge_decision,omitempty"`
	Count           int    `json:"count,omitempty"`
}

// RiskDebateState is the risk team's discussion as reported by the framework
type RiskDebateState struct {
	RiskyHistory   string `json:"risky_history,omitempty"`
	SafeHistory    string `json:"safe_history,omitempty"`
	NeutralHistory string `json:"neutral_history,omitempty"`
	History        string `json:"history,omitempty"`
	LatestSpeaker  string `json:"latest_speaker,omitempty"`
	JudgeDecision  string `json:"judge_decision,omitempty"`
	Count          int    `json:"count,omitempty"`
}

// FinalState is the aggregate result of one framework run
type FinalState struct {
	CompanyOfInterest     string            `json:"company_of_interest,omitempty"`
	TradeDate             string            `json:"trade_date,omitempty"`
	MarketReport          string            `json:"market_report,omitempty"`
	SentimentReport       string            `json:"sentiment_report,omitempty"`
	NewsReport            string            `json:"news_report,omitempty"`
	FundamentalsReport    string            `json:"fundamentals_report,omitempty"`
	InvestmentDebateState InvestDebateState `json:"investment_debate_state"`
	InvestmentPlan        string            `json:"investment_plan,omitempty"`
	TraderInvestmentPlan  string            `json:"trader_investment_plan,omitempty"`
	RiskDebateState       RiskDebateState   `json:"risk_debate_state"`
	FinalTradeDecision    string            `json:"final_trade_decision,omitempty"`
}

// AnalysisRequest is what a backend sends to the framework
type AnalysisRequest struct {
	Symbol string         `json:"symbol"`
	Date   string         `json:"date"`
	Config AnalysisConfig `json:"config"`
}

// AnalysisResponse is the framework's reply envelope
type AnalysisResponse struct {
	FinalState *FinalState `json:"final_state"`
	Decision   string      `json:"decision"`
	Error      string      `json:"error,omitempty"`
}

// SectionID identifies one of the fixed report sections
type SectionID int

const (
	SectionExecutiveSummary SectionID = iota
	SectionMarket
	SectionSentiment
	SectionNews
	SectionFundamentals
	SectionDebate
	SectionRisk
	SectionFinalDecision
)

// SummaryRow is one key/value line of the executive summary table
type SummaryRow struct {
	Label string
	Value string
}

// Subsection is a titled block of text inside a section
type Subsection struct {
	Title string
	Body  string
}

// Section is one fixed block of the report
type Section struct {
	ID          SectionID
	Title       string
	Body        string
	Subsections []Subsection
	// Only set on the executive summary
	Summary []SummaryRow
	// Sections that begin on a new page
	PageBreakBefore bool
}

// Report holds everything the PDF renderer needs
type Report struct {
	RunID       string
	Symbol      string
	Date        string
	Decision    Decision
	GeneratedAt time.Time
	Title       string
	Sections    []Section
}

// Section returns the section with the given id
func (r *Report) Section(id SectionID) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

var (
	ErrQuotaExceeded = errors.New("analysis quota exceeded")
	ErrEmptyState    = errors.New("analysis returned no final state")
)

// Result validates the envelope and returns its state and decision
func (r *AnalysisResponse) Result() (*FinalState, Decision, error) {
	if r.Error != "" {
		return nil, "", fmt.Errorf("analysis failed: %s", r.Error)
	}
	if r.FinalState == nil {
		return nil, "", ErrEmptyState
	}
	d, err := ParseDecision(r.Decision)
	if err != nil {
		return nil, "", err
	}
	return r.FinalState, d, nil
}
