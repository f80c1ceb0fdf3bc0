package driver

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"trading-report/internal/logger"
)

// Failure records a symbol whose report could not be generated
type Failure struct {
	Symbol string
	Err    error
}

// BatchSummary collects the outcome of a batch run
type BatchSummary struct {
	Date      string
	Succeeded []*Result
	Failed    []Failure
}

// Batch generates one report per symbol, one after another. A failed symbol
// is logged and recorded; the remaining symbols still run.
type Batch struct {
	driver  *Driver
	limiter *rate.Limiter
}

// NewBatch spaces consecutive analyses at least interval apart. Zero
// disables pacing.
func NewBatch(d *Driver, interval time.Duration) *Batch {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Batch{driver: d, limiter: rate.NewLimiter(limit, 1)}
}

func (b *Batch) Run(ctx context.Context, symbols []string, date string) (*BatchSummary, error) {
	date, err := ResolveDate(date, b.driver.now())
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{Date: date}
	for _, sym := range symbols {
		if err := b.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		logger.Info(ctx, "Generating report", "symbol", sym, "date", date)
		res, err := b.driver.Run(ctx, sym, date)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to generate report", err, "symbol", sym)
			summary.Failed = append(summary.Failed, Failure{Symbol: sym, Err: err})
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			continue
		}
		summary.Succeeded = append(summary.Succeeded, res)
	}

	logger.Info(ctx, "Batch completed",
		"date", date,
		"succeeded", len(summary.Succeeded),
		"failed", len(summary.Failed),
	)
	return summary, nil
}
