package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/ingredient-scanner/internal/async"
	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/export"
	"github.com/joseph-ayodele/ingredient-scanner/internal/extract"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingest"
	"github.com/joseph-ayodele/ingredient-scanner/internal/metrics"
)

func main() {
	var (
		dir        = flag.String("dir", "", "directory of label images")
		out        = flag.String("out", "scan-report.xlsx", "xlsx report path")
		workers    = flag.Int("workers", 4, "concurrent scans")
		skipHidden = flag.Bool("skip-hidden", true, "skip dot files and directories")
		watch      = flag.Bool("watch", false, "keep scanning images added to -dir until interrupted")
	)
	flag.Parse()

	cfg := common.LoadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	v := common.NewValidator().
		Field("dir", *dir, common.Required).
		Field("out", *out, common.Required).
		Field("workers", *workers, common.Positive)
	if v.HasErrors() {
		logger.Error("usage: scan-batch -dir <dir> -out report.xlsx [-workers N] [-watch]", "error", v.ErrorMessage())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.NewRegistry())
	recognizer := extract.NewRecognizer(cfg.OCR, m, logger)
	batch := ingest.NewBatch(recognizer, m, logger,
		async.WithWorkers(*workers),
		async.WithQueueSize(*workers*4),
		async.WithProcessTimeout(cfg.Scan.Timeout),
	)

	start := time.Now()
	if *watch {
		events, _, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*dir},
			InitialScan: true,
			SkipHidden:  *skipHidden,
			Debounce:    500 * time.Millisecond,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("failed to watch directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("watching for label images", "dir", *dir)
		for path := range events {
			if err := batch.Submit(ctx, path); err != nil {
				logger.Warn("failed to queue image", "path", path, "error", err)
			}
		}
	} else {
		paths, stats, err := ingest.CollectImages(*dir, *skipHidden)
		if err != nil {
			logger.Error("failed to read directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("found label images", "dir", *dir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
		for _, path := range paths {
			if err := batch.Submit(ctx, path); err != nil {
				logger.Warn("failed to queue image", "path", path, "error", err)
			}
		}
	}

	// drain even after an interrupt so every queued image has a row
	rows := batch.Close(context.Background())

	data, err := export.NewReporter(logger).ScanReportXLSX(rows)
	if err != nil {
		logger.Error("failed to build report", "error", err)
		os.Exit(1)
	}
	if dirOut := filepath.Dir(*out); dirOut != "." {
		if err := os.MkdirAll(dirOut, 0o755); err != nil {
			logger.Error("failed to create output dir", "dir", dirOut, "error", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("failed to write report", "out", *out, "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range rows {
		if r.Err != "" {
			failed++
		}
	}
	logger.Info("batch complete", "files", len(rows), "failed", failed, "out", *out, "elapsed", time.Since(start).Round(time.Millisecond))
}
