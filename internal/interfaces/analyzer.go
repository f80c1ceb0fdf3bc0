package interfaces

import (
	"context"

	"trading-report/internal/types"
)

// Analyzer runs the external multi-agent framework for one symbol and date
type Analyzer interface {
	// Propagate returns the framework's final state and decision label
	Propagate(ctx context.Context, symbol, date string, cfg types.AnalysisConfig) (*types.FinalState, types.Decision, error)
}
