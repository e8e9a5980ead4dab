package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/signallog"
)

// aggRow collects per-symbol counts of the day's emitted signals.
type aggRow struct {
	Symbol     string
	StrongBuy  int
	Buy        int
	Sell       int
	StrongSell int
	Vetoed     int
	LastPrice  float64
}

type eodSummarizer struct{}

var _ interfaces.SignalSummarizer = (*eodSummarizer)(nil)

func logDir() string {
	if v := os.Getenv("SCANNER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func istNow() time.Time { return time.Now().In(time.FixedZone("IST", 19800)) }

func eodCSVPath(t time.Time) string {
	d := t.Format("2006-01-02")
	return filepath.Join(logDir(), "eod", d+".csv")
}

// SummarizeDay aggregates the day's signal journal into a per-symbol CSV.
// A missing journal is not an error; it yields an empty path.
func (s *eodSummarizer) SummarizeDay(t time.Time) (string, error) {
	inPath := signallog.DailyFilepath(t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e signallog.Entry
		if err := json.Unmarshal([]byte(sc.Text()), &e); err != nil {
			continue
		}
		row := aggs[e.Symbol]
		if row == nil {
			row = &aggRow{Symbol: e.Symbol}
			aggs[e.Symbol] = row
		}
		switch e.Signal {
		case "STRONG_BUY":
			row.StrongBuy++
		case "BUY":
			row.Buy++
		case "SELL":
			row.Sell++
		case "STRONG_SELL":
			row.StrongSell++
		}
		row.LastPrice = e.Price
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := eodCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{"symbol", "strong_buy", "buy", "sell", "strong_sell", "total", "last_price"}
	if err := w.Write(headers); err != nil {
		return "", err
	}
	var totalSignals int
	for _, k := range keys {
		r := aggs[k]
		total := r.StrongBuy + r.Buy + r.Sell + r.StrongSell
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.StrongBuy),
			strconv.Itoa(r.Buy),
			strconv.Itoa(r.Sell),
			strconv.Itoa(r.StrongSell),
			strconv.Itoa(total),
			fmt.Sprintf("%.2f", r.LastPrice),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalSignals += total
	}
	_ = w.Write([]string{"TOTAL", "", "", "", "", strconv.Itoa(totalSignals), ""})
	return outPath, nil
}

func (s *eodSummarizer) SummarizeToday() (string, error) { return s.SummarizeDay(istNow()) }

// ShouldRunNow reports whether the market has closed (3:40 PM IST) and
// today's summary has not been written yet.
func (s *eodSummarizer) ShouldRunNow() (bool, string) {
	now := istNow()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 15, 40, 0, 0, now.Location())
	outPath := eodCSVPath(now)
	if now.After(cutoff) {
		if _, err := os.Stat(outPath); errors.Is(err, os.ErrNotExist) {
			return true, outPath
		}
	}
	return false, outPath
}
