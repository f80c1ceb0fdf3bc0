package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trading-report/internal/interfaces"
	"trading-report/internal/logger"
	"trading-report/internal/report"
	"trading-report/internal/runlog"
	"trading-report/internal/types"
)

var (
	ErrInvalidSymbol = errors.New("invalid stock symbol")
	ErrInvalidDate   = errors.New("invalid analysis date")
)

// Result describes one generated report
type Result struct {
	RunID    string
	Symbol   string
	Date     string
	Decision types.Decision
	Path     string
	Duration time.Duration
}

// Recorder journals every run, successful or not
type Recorder interface {
	Append(e runlog.Entry) error
}

// Driver runs the analyze → format → save sequence for one symbol and date
type Driver struct {
	analyzer  interfaces.Analyzer
	renderer  interfaces.Renderer
	cfg       types.AnalysisConfig
	outputDir string
	recorder  Recorder
	now       func() time.Time
}

func New(analyzer interfaces.Analyzer, renderer interfaces.Renderer, cfg types.AnalysisConfig, outputDir string) *Driver {
	return &Driver{
		analyzer:  analyzer,
		renderer:  renderer,
		cfg:       cfg,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// WithRecorder sets the journal that receives one entry per run
func (d *Driver) WithRecorder(r Recorder) *Driver {
	d.recorder = r
	return d
}

// NormalizeSymbol upper-cases and validates a ticker
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("%w: symbol is required", ErrInvalidSymbol)
	}
	if strings.ContainsAny(s, `/\ `+"\t") || strings.Contains(s, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// ResolveDate validates a YYYY-MM-DD date; empty means today
func ResolveDate(date string, now time.Time) (string, error) {
	if date == "" {
		return now.Format(types.DateLayout), nil
	}
	if _, err := time.Parse(types.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: %q must be formatted as YYYY-MM-DD", ErrInvalidDate, date)
	}
	return date, nil
}

// Run produces trading_report_{SYMBOL}_{DATE}.pdf. The file is written only
// after analysis and rendering both succeed; any failure aborts the run.
func (d *Driver) Run(ctx context.Context, symbol, date string) (*Result, error) {
	start := d.now()

	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	date, err = ResolveDate(date, start)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	op := logger.StartOperation(ctx, "driver.Run", "run_id", runID, "symbol", symbol, "date", date)
	ctx = op.GetContext()

	fail := func(stage string, err error) error {
		op.EndWithError(err, "stage", stage)
		d.record(ctx, runlog.Entry{
			RunID: runID, Symbol: symbol, Date: date,
			Status: runlog.StatusFailed, Stage: stage, Error: err.Error(),
			DurationMS: d.now().Sub(start).Milliseconds(),
		})
		return err
	}

	state, decision, err := d.analyzer.Propagate(ctx, symbol, date, d.cfg)
	if err != nil {
		return nil, fail("analysis", fmt.Errorf("analysis for %s on %s failed: %w", symbol, date, err))
	}

	rep := report.Build(symbol, date, state, decision, d.now())
	rep.RunID = runID

	pdf, err := d.renderer.Render(rep)
	if err != nil {
		return nil, fail("render", err)
	}

	path, err := report.Save(d.outputDir, report.Filename(symbol, date), pdf)
	if err != nil {
		return nil, fail("save", err)
	}

	res := &Result{
		RunID:    runID,
		Symbol:   symbol,
		Date:     date,
		Decision: decision,
		Path:     path,
		Duration: d.now().Sub(start),
	}
	d.record(ctx, runlog.Entry{
		RunID: runID, Symbol: symbol, Date: date,
		Status: runlog.StatusOK, Decision: decision, Path: path,
		DurationMS: res.Duration.Milliseconds(),
	})
	logger.Info(ctx, "PDF report generated",
		"run_id", runID,
		"path", path,
		"decision", string(decision),
		"bytes", len(pdf),
	)
	op.End("path", path, "decision", string(decision))
	return res, nil
}

// record never fails a run; a journal error is only logged
func (d *Driver) record(ctx context.Context, e runlog.Entry) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.Append(e); err != nil {
		logger.Warn(ctx, "Failed to append run journal", "error", err, "run_id", e.RunID)
	}
}
