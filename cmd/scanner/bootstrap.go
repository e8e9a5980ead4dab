package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"signal-scanner/internal/broker/brokerobs"
	"signal-scanner/internal/broker/zerodha"
	"signal-scanner/internal/eod"
	"signal-scanner/internal/eod/eodobs"
	"signal-scanner/internal/events"
	"signal-scanner/internal/indicator"
	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/market"
	"signal-scanner/internal/scanner"
	"signal-scanner/internal/scanner/scannerobs"
	"signal-scanner/internal/signal"
	"signal-scanner/internal/signal/signalobs"
	"signal-scanner/internal/signallog"
	"signal-scanner/internal/store"
	"signal-scanner/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger, tracer, and EOD summarizer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	// Initialize EOD summarizer with observability
	initializeEOD()

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old signal journal files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("SCANNER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := signallog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeMarketData initializes and returns the market data source with observability
func initializeMarketData(ctx context.Context, cfg *store.Config) interfaces.MarketData {
	md := zerodha.NewZerodha(zerodha.Params{
		Mode:        cfg.Mode,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
		DataSource:  cfg.DataSource,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - signals are logged, never acted on")
	}

	if cfg.DataSource == "LIVE" {
		logger.Info(ctx, "Using LIVE quote data from Zerodha")
	} else {
		logger.Info(ctx, "Using STATIC synthetic quote data for testing")
	}

	// Wrap with observability middleware
	return brokerobs.Wrap(md)
}

// initializeEvaluator builds the signal evaluator with observability
func initializeEvaluator(ctx context.Context, cfg *store.Config) interfaces.Evaluator {
	profile := signal.ProfileByName(cfg.Scoring.Profile)
	logger.Info(ctx, "Scoring profile selected", "profile", cfg.Scoring.Profile)

	ev := signal.NewEvaluator(
		signal.WithProfile(profile),
		signal.WithRiskParams(signal.RiskParams{
			TargetATRMult: cfg.Risk.TargetATRMult,
			StopATRMult:   cfg.Risk.StopATRMult,
			MinRatio:      cfg.Risk.MinRatio,
			StrongRatio:   cfg.Risk.StrongRatio,
		}),
		signal.WithSafetyParams(signal.SafetyParams{
			MaxTradesPerDay: cfg.Safety.MaxTradesPerDay,
			VIXWarnLevel:    cfg.Safety.VIXWarnLevel,
			VIXBlockLevel:   cfg.Safety.VIXBlockLevel,
		}),
	)

	// Wrap with observability middleware
	return signalobs.Wrap(ev)
}

// initializeOrchestrator wires the scan orchestrator and its collaborators
func initializeOrchestrator(ctx context.Context, cfg *store.Config, md interfaces.MarketData, symbols []string) interfaces.Orchestrator {
	builder := indicator.NewBuilder(indicator.Periods{
		EMAFast:   cfg.Indicators.EMAFast,
		EMASlow:   cfg.Indicators.EMASlow,
		RSIPeriod: cfg.Indicators.RSIPeriod,
		ATRPeriod: cfg.Indicators.ATRPeriod,
		RangeBars: cfg.Indicators.RangeBars,
	})

	vix := market.NewVIXProvider(cfg.VIX.Source, cfg.VIX.Static, md)
	calendar := initializeCalendar(ctx, cfg)
	eval := initializeEvaluator(ctx, cfg)

	orch := scanner.New(scanner.Config{
		Symbols:     symbols,
		Interval:    time.Duration(cfg.Scan.IntervalSeconds) * time.Second,
		Warmup:      time.Duration(cfg.Scan.WarmupSeconds) * time.Second,
		MinVolume:   cfg.Scan.MinVolume,
		TopN:        cfg.Scan.TopN,
		Parallelism: cfg.Scan.Parallelism,
		Journal:     true,
	}, md, eval, builder, vix, calendar)

	if os.Getenv("SCANNER_PANIC") == "true" {
		logger.Warn(ctx, "Panic state set from environment - all signals will be vetoed")
		orch.SetPanicState(true)
	}

	// Wrap with observability middleware
	return scannerobs.Wrap(orch)
}

// initializeCalendar builds the event calendar service
func initializeCalendar(ctx context.Context, cfg *store.Config) interfaces.EventCalendar {
	svcCfg := events.DefaultServiceConfig()
	svcCfg.Enabled = cfg.Events.Enabled
	if cfg.Events.CalendarURL != "" {
		svcCfg.CalendarURL = cfg.Events.CalendarURL
	}
	if cfg.Events.CacheTTLMinutes > 0 {
		svcCfg.CacheDuration = time.Duration(cfg.Events.CacheTTLMinutes) * time.Minute
	}

	if !svcCfg.Enabled {
		logger.Info(ctx, "Event calendar disabled - result-day checks report no events")
	}

	return events.NewService(svcCfg)
}

// initializeEOD wraps the default EOD summarizer with observability
func initializeEOD() {
	// Create base summarizer
	baseSummarizer := eod.NewSummarizer()

	// Wrap with observability middleware
	observableSummarizer := eodobs.Wrap(baseSummarizer)

	// Set as default summarizer
	eod.SetDefaultSummarizer(observableSummarizer)
}

// scanUniverse merges the static universe with the F&O list, deduplicated,
// preserving config order.
func scanUniverse(cfg *store.Config) []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0, len(cfg.Universe.Static)+len(cfg.Universe.FNO))

	for _, sym := range append(append([]string{}, cfg.Universe.Static...), cfg.Universe.FNO...) {
		if seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}

	return symbols
}

// printCachedResult emits a one-line JSON summary of the latest cycle
func printCachedResult(orch interfaces.Orchestrator) {
	res := orch.CachedResult()
	if res == nil || !res.Available {
		return
	}

	summary := struct {
		LastScan time.Time `json:"last_scan"`
		Duration int64     `json:"duration_ms"`
		Scanned  int       `json:"scanned"`
		Filtered int       `json:"filtered"`
		Failed   int       `json:"failed"`
		Signals  int       `json:"signals"`
		Patterns int       `json:"patterns"`
	}{
		LastScan: res.LastScanTime,
		Duration: res.DurationMs,
		Scanned:  res.Scanned,
		Filtered: res.Filtered,
		Failed:   res.Failed,
		Signals:  len(res.Signals),
	}
	for _, hits := range res.Patterns {
		summary.Patterns += len(hits)
	}

	b, _ := json.Marshal(summary)
	fmt.Println(string(b))
}
