package runlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"trading-report/internal/types"
)

type Status string

const (
	StatusOK     Status = "OK"
	StatusFailed Status = "FAILED"
)

// Entry is one line of the daily run journal
type Entry struct {
	Time       string         `json:"time"`
	RunID      string         `json:"run_id"`
	Symbol     string         `json:"symbol"`
	Date       string         `json:"date"`
	Status     Status         `json:"status"`
	Decision   types.Decision `json:"decision,omitempty"`
	Path       string         `json:"path,omitempty"`
	Stage      string         `json:"stage,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}

// Journal appends report runs to {dir}/{YYYY-MM-DD}.jsonl, one file per
// local calendar day.
type Journal struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func New(dir string) *Journal {
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) Dir() string { return j.dir }

func (j *Journal) dailyPath(t time.Time) string {
	return filepath.Join(j.dir, t.Format(types.DateLayout)+".jsonl")
}

func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := j.dailyPath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files last modified more than retentionDays
// ago and removes the originals. It returns the number of files compressed.
func (j *Journal) CompressOlder(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := j.now().AddDate(0, 0, -retentionDays)
	matches, err := filepath.Glob(filepath.Join(j.dir, "*.jsonl"))
	if err != nil {
		return 0, err
	}

	n := 0
	for _, p := range matches {
		info, err := os.Stat(p)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			continue
		}
		if err := gzipFile(p, gz); err != nil {
			return n, fmt.Errorf("failed to compress %s: %w", p, err)
		}
		_ = os.Remove(p)
		n++
	}
	return n, nil
}

func gzipFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}
