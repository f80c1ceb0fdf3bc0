package subprocess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-report/internal/credentials"
	"trading-report/internal/types"
)

// TestHelperProcess stands in for the framework bridge when launched by the
// tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	switch os.Getenv("HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "AuthenticationError: invalid api key")
		os.Exit(3)
	case "quota":
		fmt.Println(`{"error":"You exceeded your current quota"}`)
		return
	case "quota-stderr":
		fmt.Fprintln(os.Stderr, "openai.RateLimitError: Error code: 429 - You exceeded your current quota")
		os.Exit(1)
	case "error-envelope":
		fmt.Println("loading graph")
		fmt.Println(`{"error":"no data for ticker ZZZZ"}`)
		fmt.Fprintln(os.Stderr, "Traceback (most recent call last): ...")
		os.Exit(1)
	case "pretty":
		fmt.Println("{progress} step 1 of 4")
		fmt.Println(`{"step": 2}`)
		fmt.Println("{")
		fmt.Println(`  "decision": "SELL",`)
		fmt.Println(`  "final_state": {"company_of_interest": "MSFT"}`)
		fmt.Println("}")
		fmt.Println("done")
		return
	case "garbage":
		fmt.Println("no json here")
		return
	}

	var req types.AnalysisRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Println("running analysts...")
	_ = json.NewEncoder(os.Stdout).Encode(types.AnalysisResponse{
		Decision: "HOLD",
		FinalState: &types.FinalState{
			CompanyOfInterest: req.Symbol,
			TradeDate:         req.Date,
			MarketReport:      fmt.Sprintf("rounds=%d online=%t", req.Config.MaxDebateRounds, req.Config.OnlineTools),
			NewsReport:        os.Getenv(credentials.FinnhubEnv),
		},
	})
}

func helper(t *testing.T, mode string) *Analyzer {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_MODE", mode)
	return New(os.Args[0], []string{"-test.run=TestHelperProcess", "--"},
		credentials.Credentials{FinnhubAPIKey: "fh-child", OpenAIAPIKey: "sk-child"})
}

func TestPropagate(t *testing.T) {
	a := helper(t, "ok")
	cfg := types.AnalysisConfig{MaxDebateRounds: 2, OnlineTools: true}

	state, decision, err := a.Propagate(context.Background(), "MSFT", "2025-01-02", cfg)
	require.NoError(t, err)

	assert.Equal(t, types.DecisionHold, decision)
	assert.Equal(t, "MSFT", state.CompanyOfInterest)
	assert.Equal(t, "2025-01-02", state.TradeDate)
	assert.Equal(t, "rounds=2 online=true", state.MarketReport)
	assert.Equal(t, "fh-child", state.NewsReport, "credentials reach the child environment")
}

func TestPropagateNonZeroExit(t *testing.T) {
	_, _, err := helper(t, "fail").Propagate(context.Background(), "MSFT", "2025-01-02", types.AnalysisConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 3")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestPropagateQuota(t *testing.T) {
	_, _, err := helper(t, "quota").Propagate(context.Background(), "MSFT", "2025-01-02", types.AnalysisConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrQuotaExceeded))
}

func TestPropagateMissingCommand(t *testing.T) {
	a := New("definitely-not-a-real-binary-xyz", nil, credentials.Credentials{})
	_, _, err := a.Propagate(context.Background(), "MSFT", "2025-01-02", types.AnalysisConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestPropagateQuotaOnStderr(t *testing.T) {
	_, _, err := helper(t, "quota-stderr").Propagate(context.Background(), "MSFT", "2025-01-02", types.AnalysisConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrQuotaExceeded))
	assert.Contains(t, err.Error(), "code 1")
}

func TestPropagateErrorEnvelopeOnExit(t *testing.T) {
	_, _, err := helper(t, "error-envelope").Propagate(context.Background(), "ZZZZ", "2025-01-02", types.AnalysisConfig{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, types.ErrQuotaExceeded))
	assert.Contains(t, err.Error(), "no data for ticker ZZZZ")
}

func TestPropagatePrettyPrintedEnvelope(t *testing.T) {
	state, decision, err := helper(t, "pretty").Propagate(context.Background(), "MSFT", "2025-01-02", types.AnalysisConfig{})
	require.NoError(t, err)
	assert.Equal(t, types.DecisionSell, decision)
	assert.Equal(t, "MSFT", state.CompanyOfInterest)
}

func TestPropagateNoEnvelope(t *testing.T) {
	_, _, err := helper(t, "garbage").Propagate(context.Background(), "MSFT", "2025-01-02", types.AnalysisConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode analysis output")
}

func TestLastEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		ok       bool
		decision string
	}{
		{"single line", "step 1\nstep 2\n{\"decision\":\"BUY\"}\n\n", true, "BUY"},
		{"last object wins", `{"decision":"HOLD"}` + "\n" + `{"decision":"BUY"}`, true, "BUY"},
		{"braces inside strings", `{"decision":"SELL","final_state":{"market_report":"a } { b"}}`, true, "SELL"},
		{"unrelated objects ignored", `{"decision":"BUY"}` + "\n" + `{"tokens": 12}`, true, "BUY"},
		{"truncated trailing object", `{"decision":"HOLD"}` + "\n" + `{"decision":"BU`, true, "HOLD"},
		{"nothing", "plain text {not json}", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ok := lastEnvelope([]byte(tt.out))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.decision, env.Decision)
		})
	}
}

func TestLogArgs(t *testing.T) {
	long := string(make([]byte, 200))
	assert.Equal(t, []string{"-c", "<200 bytes>"}, logArgs([]string{"-c", long}))
}
