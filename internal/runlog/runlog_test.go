package runlog

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-report/internal/types"
)

var day = time.Date(2025, 7, 5, 16, 0, 0, 0, time.UTC)

func newJournal(t *testing.T) *Journal {
	t.Helper()
	j := New(t.TempDir())
	j.now = func() time.Time { return day }
	return j
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	return out
}

func TestAppend(t *testing.T) {
	j := newJournal(t)

	require.NoError(t, j.Append(Entry{RunID: "r1", Symbol: "NVDA", Date: "2025-07-05", Status: StatusOK, Decision: types.DecisionBuy, Path: "trading_report_NVDA_2025-07-05.pdf"}))
	require.NoError(t, j.Append(Entry{RunID: "r2", Symbol: "AAPL", Date: "2025-07-05", Status: StatusFailed, Stage: "analysis", Error: "quota"}))

	entries := readEntries(t, filepath.Join(j.Dir(), "2025-07-05.jsonl"))
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-07-05 16:00:00", entries[0].Time)
	assert.Equal(t, types.DecisionBuy, entries[0].Decision)
	assert.Equal(t, StatusFailed, entries[1].Status)
	assert.Equal(t, "analysis", entries[1].Stage)
}

func TestCompressOlder(t *testing.T) {
	j := newJournal(t)
	old := filepath.Join(j.Dir(), "2025-06-01.jsonl")
	recent := filepath.Join(j.Dir(), "2025-07-04.jsonl")
	require.NoError(t, os.WriteFile(old, []byte(`{"symbol":"AAPL"}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(recent, []byte(`{"symbol":"NVDA"}`+"\n"), 0o644))
	require.NoError(t, os.Chtimes(old, day.AddDate(0, 0, -30), day.AddDate(0, 0, -30)))
	require.NoError(t, os.Chtimes(recent, day.AddDate(0, 0, -1), day.AddDate(0, 0, -1)))

	n, err := j.CompressOlder(7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, old)
	assert.FileExists(t, recent)

	f, err := os.Open(old + ".gz")
	require.NoError(t, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	b, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, `{"symbol":"AAPL"}`+"\n", string(b))
}

func TestCompressOlderDisabled(t *testing.T) {
	n, err := newJournal(t).CompressOlder(0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSummarizeDay(t *testing.T) {
	j := newJournal(t)
	for _, e := range []Entry{
		{Symbol: "NVDA", Date: "2025-07-05", Status: StatusOK, Decision: types.DecisionHold, Path: "a.pdf"},
		{Symbol: "NVDA", Date: "2025-07-05", Status: StatusOK, Decision: types.DecisionBuy, Path: "b.pdf"},
		{Symbol: "AAPL", Date: "2025-07-05", Status: StatusFailed, Error: "quota"},
		{Symbol: "TSLA", Date: "2025-07-05", Status: StatusOK, Decision: types.DecisionSell, Path: "c.pdf"},
	} {
		require.NoError(t, j.Append(e))
	}

	path, err := j.SummarizeDay(day)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(j.Dir(), "summary", "2025-07-05.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"symbol", "analysis_date", "decision", "runs", "failed", "report"},
		{"AAPL", "2025-07-05", "", "1", "1", ""},
		{"NVDA", "2025-07-05", "BUY", "2", "0", "b.pdf"},
		{"TSLA", "2025-07-05", "SELL", "1", "0", "c.pdf"},
		{"TOTAL", "", "BUY=1 SELL=1 HOLD=0", "", "", ""},
	}, rows)
}

func TestSummarizeDayNoRuns(t *testing.T) {
	path, err := newJournal(t).SummarizeDay(day)
	require.NoError(t, err)
	assert.Empty(t, path)
}
