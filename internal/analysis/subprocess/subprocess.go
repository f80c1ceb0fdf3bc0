package subprocess

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"trading-report/internal/credentials"
	"trading-report/internal/logger"
	"trading-report/internal/trace"
	"trading-report/internal/types"
)

const maxStderr = 2048

// Analyzer runs the framework as a child process. The request is written to
// stdin as JSON and the response envelope is read from stdout.
type Analyzer struct {
	command string
	args    []string
	creds   credentials.Credentials
}

func New(command string, args []string, creds credentials.Credentials) *Analyzer {
	return &Analyzer{command: command, args: args, creds: creds}
}

func (a *Analyzer) Propagate(ctx context.Context, symbol, date string, cfg types.AnalysisConfig) (*types.FinalState, types.Decision, error) {
	ctx, span := trace.StartSpan(ctx, "subprocess-propagate")
	defer span.End()

	in, err := json.Marshal(types.AnalysisRequest{Symbol: symbol, Date: date, Config: cfg})
	if err != nil {
		return nil, "", err
	}

	cmd := exec.CommandContext(ctx, a.command, a.args...)
	cmd.Env = append(os.Environ(), a.creds.Environ()...)
	cmd.Stdin = bytes.NewReader(in)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if logger.IsDebugEnabled() {
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	logger.Debug(ctx, "Starting analysis process", "command", a.command, "args", logArgs(a.args))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", fmt.Errorf("analysis process aborted: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, "", exitError(exitErr.ExitCode(), stdout.Bytes(), stderr.String())
		}
		return nil, "", fmt.Errorf("failed to start analysis process: %w", err)
	}

	envelope, ok := lastEnvelope(stdout.Bytes())
	if !ok {
		return nil, "", fmt.Errorf("failed to decode analysis output: no response object in %d bytes of stdout", stdout.Len())
	}
	if isQuotaMessage(envelope.Error) {
		return nil, "", fmt.Errorf("%w: %s", types.ErrQuotaExceeded, envelope.Error)
	}
	return envelope.Result()
}

// exitError prefers the error the bridge reported on stdout and falls back
// to the stderr tail. Quota failures map to ErrQuotaExceeded either way.
func exitError(code int, stdout []byte, stderr string) error {
	msg := tail(stderr)
	if envelope, ok := lastEnvelope(stdout); ok && envelope.Error != "" {
		msg = envelope.Error
	}
	if isQuotaMessage(msg) {
		return fmt.Errorf("%w: analysis process exited with code %d: %s", types.ErrQuotaExceeded, code, msg)
	}
	return fmt.Errorf("analysis process exited with code %d: %s", code, msg)
}

// lastEnvelope returns the last complete top-level JSON object in out that
// carries a response field. Progress text, pretty-printed objects and
// trailing output are all tolerated.
func lastEnvelope(out []byte) (types.AnalysisResponse, bool) {
	var (
		last  types.AnalysisResponse
		found bool
	)
	for i := 0; i < len(out); i++ {
		if out[i] != '{' {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(out[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		var env types.AnalysisResponse
		if json.Unmarshal(raw, &env) == nil && (env.FinalState != nil || env.Decision != "" || env.Error != "") {
			last, found = env, true
		}
		i += int(dec.InputOffset()) - 1
	}
	return last, found
}

// logArgs keeps inline scripts out of the log
func logArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if len(a) > 80 {
			a = fmt.Sprintf("<%d bytes>", len(a))
		}
		out[i] = a
	}
	return out
}

func isQuotaMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "quota") || strings.Contains(m, "rate limit")
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return s
}
