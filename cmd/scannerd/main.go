package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/extract"
	"github.com/joseph-ayodele/ingredient-scanner/internal/metrics"
	"github.com/joseph-ayodele/ingredient-scanner/internal/server"
	"github.com/joseph-ayodele/ingredient-scanner/internal/web"
)

func main() {
	cfg := common.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.OCR.ArtifactCacheDir, 0o755); err != nil {
		logger.Error("failed to create artifact cache dir", "dir", cfg.OCR.ArtifactCacheDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	recognizer := extract.NewRecognizer(cfg.OCR, m, logger)

	webServer, err := web.New(web.Deps{
		Recognizer:     recognizer,
		Recorder:       m,
		Gatherer:       reg,
		Logger:         logger,
		UploadDir:      cfg.OCR.ArtifactCacheDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		ScanTimeout:    cfg.Scan.Timeout,
		AccessLog:      cfg.SlogLevel() <= slog.LevelDebug,
	})
	if err != nil {
		logger.Error("failed to build web server", "error", err)
		os.Exit(1)
	}

	scanService := server.NewScanService(recognizer, m, server.ScanServiceConfig{
		UploadDir:      cfg.OCR.ArtifactCacheDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		ScanTimeout:    cfg.Scan.Timeout,
	}, logger)
	grpcServer := server.NewGRPCServer(scanService, logger,
		grpc.MaxRecvMsgSize(cfg.Server.MaxUploadBytes+1<<10),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := webServer.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := grpcServer.ListenAndServe(cfg.Server.GRPCAddr); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		done := make(chan struct{})
		go func() {
			defer close(done)
			grpcServer.Stop()
		}()
		if err := webServer.Shutdown(); err != nil {
			logger.Warn("http shutdown failed", "error", err)
		}
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			logger.Warn("grpc drain timed out, forcing stop")
			grpcServer.Server.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
