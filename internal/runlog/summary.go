package runlog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"trading-report/internal/types"
)

type symbolRow struct {
	Symbol string
	Runs   int
	Failed int
	Last   Entry
}

// SummarizeDay writes {dir}/summary/{YYYY-MM-DD}.csv with the latest
// decision per symbol for runs journaled on day t. It returns "" when no
// runs were recorded that day.
func (j *Journal) SummarizeDay(t time.Time) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.dailyPath(t))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	rows := map[string]*symbolRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		r := rows[e.Symbol]
		if r == nil {
			r = &symbolRow{Symbol: e.Symbol}
			rows[e.Symbol] = r
		}
		r.Runs++
		if e.Status != StatusOK {
			r.Failed++
			if r.Last.Date == "" {
				r.Last.Date = e.Date
			}
			continue
		}
		r.Last = e
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := filepath.Join(j.dir, "summary", t.Format(types.DateLayout)+".csv")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"symbol", "analysis_date", "decision", "runs", "failed", "report"}); err != nil {
		return "", err
	}
	counts := map[types.Decision]int{}
	for _, k := range keys {
		r := rows[k]
		counts[r.Last.Decision]++
		rec := []string{r.Symbol, r.Last.Date, string(r.Last.Decision), strconv.Itoa(r.Runs), strconv.Itoa(r.Failed), r.Last.Path}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	_ = w.Write([]string{"TOTAL", "",
		"BUY=" + strconv.Itoa(counts[types.DecisionBuy]) +
			" SELL=" + strconv.Itoa(counts[types.DecisionSell]) +
			" HOLD=" + strconv.Itoa(counts[types.DecisionHold]),
		"", "", ""})
	w.Flush()
	return outPath, w.Error()
}
