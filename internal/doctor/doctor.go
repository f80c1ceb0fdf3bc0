package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"time"

	"trading-report/internal/analysis/fixture"
	"trading-report/internal/api"
	"trading-report/internal/credentials"
	"trading-report/internal/llm/openai"
	"trading-report/internal/logger"
	"trading-report/internal/report"
	"trading-report/internal/store"
	"trading-report/internal/types"
)

type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

// Check is the outcome of one setup probe
type Check struct {
	Name     string
	Status   Status
	Detail   string
	Duration time.Duration
}

type Result struct {
	Checks []Check
}

// OK reports whether no check failed. Skipped checks do not count.
func (r *Result) OK() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

// Failed returns the failing checks in run order
func (r *Result) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			out = append(out, c)
		}
	}
	return out
}

type pinger interface {
	Ping(ctx context.Context, model string) error
}

// Doctor verifies that a machine can produce reports: keys present, backend
// reachable, both upstream APIs answering, and PDF output working.
type Doctor struct {
	cfg    *store.Config
	creds  credentials.Credentials
	client *http.Client
	openai pinger
}

// checkTimeout bounds each HTTP check
const checkTimeout = 15 * time.Second

// New builds a Doctor. A nil client uses the default transport.
func New(cfg *store.Config, creds credentials.Credentials, client *http.Client) *Doctor {
	return &Doctor{
		cfg:    cfg,
		creds:  creds,
		client: client,
		openai: openai.NewProber(creds.OpenAIAPIKey, cfg.Doctor.OpenAIBaseURL),
	}
}

// Run executes every check in order and never stops early
func (d *Doctor) Run(ctx context.Context) *Result {
	op := logger.StartOperation(ctx, "doctor.Run", "backend", d.cfg.Analysis.Backend)
	ctx = op.GetContext()

	credsErr := d.creds.Validate()
	res := &Result{}
	res.Checks = append(res.Checks,
		d.run(ctx, "API keys", func(context.Context) (string, error) {
			if credsErr != nil {
				return "", credsErr
			}
			m := d.creds.Masked()
			return fmt.Sprintf("%s=%s %s=%s",
				credentials.FinnhubEnv, m[credentials.FinnhubEnv],
				credentials.OpenAIEnv, m[credentials.OpenAIEnv]), nil
		}),
		d.run(ctx, "Analysis backend", d.checkBackend),
	)

	if credsErr != nil {
		res.Checks = append(res.Checks,
			skipped("Finnhub API", "API keys not configured"),
			skipped("OpenAI API", "API keys not configured"),
		)
	} else {
		res.Checks = append(res.Checks,
			d.run(ctx, "Finnhub API", d.checkFinnhub),
			d.run(ctx, "OpenAI API", d.checkOpenAI),
		)
	}
	res.Checks = append(res.Checks, d.run(ctx, "PDF generation", d.checkPDF))

	if res.OK() {
		op.End("checks", len(res.Checks))
	} else {
		op.EndWithError(errors.New("setup checks failed"), "failed", len(res.Failed()))
	}
	return res
}

func (d *Doctor) run(ctx context.Context, name string, fn func(context.Context) (string, error)) Check {
	start := time.Now()
	detail, err := fn(ctx)
	c := Check{Name: name, Status: StatusPass, Detail: detail, Duration: time.Since(start)}
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		logger.Warn(ctx, "Setup check failed", "check", name, "error", err)
	} else {
		logger.Debug(ctx, "Setup check passed", "check", name, "detail", detail)
	}
	return c
}

func skipped(name, reason string) Check {
	return Check{Name: name, Status: StatusSkip, Detail: reason}
}

func (d *Doctor) checkBackend(ctx context.Context) (string, error) {
	a := d.cfg.Analysis
	switch a.Backend {
	case store.BackendSubprocess:
		path, err := exec.LookPath(a.Command)
		if err != nil {
			return "", fmt.Errorf("command %q not found: %w", a.Command, err)
		}
		return path, nil

	case store.BackendHTTP:
		c := api.NewClient(api.WithBaseURL(a.Endpoint), api.WithHTTPClient(d.client), api.WithTimeout(checkTimeout))
		status := http.StatusOK
		if _, err := c.GET(ctx, "", nil); err != nil {
			status = api.StatusCode(err)
			if status == 0 {
				return "", fmt.Errorf("endpoint unreachable: %w", err)
			}
			if status >= http.StatusInternalServerError {
				return "", fmt.Errorf("endpoint returned http %d", status)
			}
		}
		return fmt.Sprintf("%s (http %d)", a.Endpoint, status), nil

	case store.BackendFixture:
		f := fixture.New(a.FixturePath)
		_, decision, err := f.Propagate(ctx, d.cfg.Symbol, d.cfg.Date, d.cfg.AnalysisConfig())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (decision %s)", f.Path(), decision), nil
	}
	return "", fmt.Errorf("unsupported analysis backend: %s", a.Backend)
}

type finnhubQuote struct {
	Current   float64 `json:"c"`
	Timestamp int64   `json:"t"`
}

func (d *Doctor) checkFinnhub(ctx context.Context) (string, error) {
	symbol := d.cfg.Doctor.ProbeSymbol
	c := api.NewClient(
		api.WithBaseURL(d.cfg.Doctor.FinnhubBaseURL),
		api.WithHTTPClient(d.client),
		api.WithTimeout(checkTimeout),
		api.WithLogging(true),
	)

	resp, err := c.GET(ctx, "/api/v1/quote", url.Values{"symbol": {symbol}, "token": {d.creds.FinnhubAPIKey}})
	switch code := api.StatusCode(err); {
	case err == nil:
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "", fmt.Errorf("finnhub rejected the API key (http %d)", code)
	case code == http.StatusTooManyRequests:
		return "", types.ErrQuotaExceeded
	case code != 0:
		return "", fmt.Errorf("finnhub http %d", code)
	default:
		return "", fmt.Errorf("finnhub unreachable: %w", err)
	}

	var quote finnhubQuote
	if err := resp.ParseJSON(&quote); err != nil {
		return "", err
	}
	if quote.Current == 0 {
		return "", fmt.Errorf("no quote data for %s", symbol)
	}
	return fmt.Sprintf("%s last price %.2f", symbol, quote.Current), nil
}

func (d *Doctor) checkOpenAI(ctx context.Context) (string, error) {
	model := d.cfg.Doctor.ProbeModel
	if err := d.openai.Ping(ctx, model); err != nil {
		return "", err
	}
	return "model " + model + " responded", nil
}

func (d *Doctor) checkPDF(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "trading-report-doctor-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	rep := report.Build(d.cfg.Doctor.ProbeSymbol, time.Now().Format(types.DateLayout),
		&types.FinalState{MarketReport: "Setup check."}, types.DecisionHold, time.Now())
	r := report.NewPDFRenderer(report.PDFOptions{
		PageSize: d.cfg.Report.PageSize,
		Compress: d.cfg.CompressPDF(),
		Author:   d.cfg.Report.Author,
	})
	b, err := r.Render(rep)
	if err != nil {
		return "", err
	}
	if _, err := report.Save(dir, report.Filename(rep.Symbol, rep.Date), b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d byte test document", len(b)), nil
}
