package analysisobs

import (
	"context"
	"time"

	"trading-report/internal/interfaces"
	"trading-report/internal/logger"
	"trading-report/internal/trace"
	"trading-report/internal/types"
)

// observableAnalyzer wraps an Analyzer with logging, tracing and a deadline
type observableAnalyzer struct {
	analyzer interfaces.Analyzer
	timeout  time.Duration
}

// Compile-time interface check
var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

// Wrap wraps an analyzer with observability middleware. A zero timeout
// leaves the caller's deadline untouched.
func Wrap(analyzer interfaces.Analyzer, timeout time.Duration) interfaces.Analyzer {
	return &observableAnalyzer{
		analyzer: analyzer,
		timeout:  timeout,
	}
}

func (oa *observableAnalyzer) Propagate(ctx context.Context, symbol, date string, cfg types.AnalysisConfig) (*types.FinalState, types.Decision, error) {
	ctx, span := trace.StartSpan(ctx, "analysis.Propagate")
	defer span.End()

	if oa.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, oa.timeout)
		defer cancel()
	}

	logger.Info(ctx, "Running multi-agent analysis",
		"symbol", symbol,
		"date", date,
		"deep_think_llm", cfg.DeepThinkLLM,
		"quick_think_llm", cfg.QuickThinkLLM,
		"max_debate_rounds", cfg.MaxDebateRounds,
		"online_tools", cfg.OnlineTools,
	)

	start := time.Now()
	state, decision, err := oa.analyzer.Propagate(ctx, symbol, date, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Analysis failed", err,
			"symbol", symbol,
			"date", date,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, "", err
	}

	logger.Decision(ctx, symbol, date, string(decision),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return state, decision, nil
}
