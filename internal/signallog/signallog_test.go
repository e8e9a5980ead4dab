package signallog

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

func TestAppendWritesDailyJournal(t *testing.T) {
	t.Setenv("SCANNER_LOG_DIR", t.TempDir())

	err := Append(Entry{Symbol: "TCS", Signal: "BUY", Confidence: "MEDIUM", Price: 3500.5, BullScore: 4})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := Append(Entry{Symbol: "INFY", Signal: "SELL", Price: 1500}); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	b, err := os.ReadFile(DailyFilepath(time.Now()))
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 journal lines, got %d", len(lines))
	}

	var e Entry
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("Journal line is not valid JSON: %v", err)
	}
	if e.Symbol != "TCS" || e.Signal != "BUY" || e.Price != 3500.5 {
		t.Errorf("Unexpected entry round-trip: %+v", e)
	}
	if e.Time == "" {
		t.Error("Expected Append to stamp the entry time")
	}
}

func TestCompressOlderZeroRetentionIsNoOp(t *testing.T) {
	t.Setenv("SCANNER_LOG_DIR", t.TempDir())

	if err := Append(Entry{Symbol: "TCS", Signal: "BUY"}); err != nil {
		t.Fatal(err)
	}
	if err := CompressOlder(0); err != nil {
		t.Fatalf("CompressOlder(0) failed: %v", err)
	}

	if _, err := os.Stat(DailyFilepath(time.Now())); err != nil {
		t.Error("Expected today's journal to survive a zero-retention pass")
	}
}

func TestCompressOlderKeepsFreshFiles(t *testing.T) {
	t.Setenv("SCANNER_LOG_DIR", t.TempDir())

	if err := Append(Entry{Symbol: "TCS", Signal: "BUY"}); err != nil {
		t.Fatal(err)
	}
	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	p := DailyFilepath(time.Now())
	if _, err := os.Stat(p); err != nil {
		t.Error("Expected a journal newer than the retention window to stay uncompressed")
	}
	if _, err := os.Stat(p + ".gz"); err == nil {
		t.Error("Expected no gzip of a fresh journal")
	}
}
