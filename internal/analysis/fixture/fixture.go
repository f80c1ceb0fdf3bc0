package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"trading-report/internal/logger"
	"trading-report/internal/types"
)

// Analyzer replays a saved framework response from disk. Used for dry runs
// and for rendering a previously captured analysis again.
type Analyzer struct {
	path string
}

func New(path string) *Analyzer {
	return &Analyzer{path: path}
}

// Path returns the fixture file this analyzer reads
func (a *Analyzer) Path() string {
	return a.path
}

func (a *Analyzer) Propagate(ctx context.Context, symbol, date string, cfg types.AnalysisConfig) (*types.FinalState, types.Decision, error) {
	logger.Debug(ctx, "Fixture analyzer called", "symbol", symbol, "date", date, "path", a.path)

	b, err := os.ReadFile(a.path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read fixture: %w", err)
	}
	var envelope types.AnalysisResponse
	if err := json.Unmarshal(b, &envelope); err != nil {
		return nil, "", fmt.Errorf("failed to decode fixture %s: %w", a.path, err)
	}
	return envelope.Result()
}
