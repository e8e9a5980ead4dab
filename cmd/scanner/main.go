package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signal-scanner/internal/eod"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/trace"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer trace.Shutdown(context.Background())

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldLogs(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	md := initializeMarketData(ctx, cfg)
	symbols := scanUniverse(cfg)

	if err := md.Start(ctx, symbols); err != nil {
		logger.ErrorWithErr(ctx, "Failed to start market data source", err)
		os.Exit(1)
	}
	defer md.Stop(context.Background())

	orch := initializeOrchestrator(ctx, cfg, md, symbols)

	status := orch.Start(ctx)
	if !status.Started {
		logger.Error(ctx, "Scan refused to start", "state", string(status.State), "message", status.Message)
		os.Exit(1)
	}

	reportTick := time.NewTicker(time.Duration(cfg.Scan.IntervalSeconds) * time.Second)
	defer reportTick.Stop()
	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()

	logger.Info(ctx, "Scanner started", "symbols", len(symbols), "interval_seconds", cfg.Scan.IntervalSeconds)
	for {
		select {
		case <-reportTick.C:
			printCachedResult(orch)
		case <-eodTick.C:
			if ok, _ := eod.ShouldRunNow(); ok {
				if p, err := eod.SummarizeToday(); err == nil && p != "" {
					logger.Info(ctx, "EOD CSV written", "path", p)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			orch.Stop(ctx)
			if p, err := eod.SummarizeToday(); err == nil && p != "" {
				logger.Info(ctx, "EOD CSV written", "path", p)
			}
			return
		case <-ctx.Done():
			orch.Stop(context.Background())
			return
		}
	}
}
