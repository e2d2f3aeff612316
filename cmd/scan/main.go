package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/ingredient-scanner/internal/capture"
	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/extract"
	"github.com/joseph-ayodele/ingredient-scanner/internal/scan"
)

func main() {
	var (
		file   = flag.String("file", "", "label image to scan")
		camera = flag.Bool("camera", false, "capture one frame from CAPTURE_DEVICE and scan it")
	)
	flag.Parse()

	cfg := common.LoadConfig()

	// logs go to stderr so the card and meter own stdout
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if *file == "" && !*camera {
		fmt.Fprintln(os.Stderr, "usage: scan -file <image> | scan -camera")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recognizer := extract.NewRecognizer(cfg.OCR, nil, logger)
	surface := scan.NewTerminalSurface(os.Stdout)
	opts := []scan.Option{scan.WithLogger(logger)}
	if *camera {
		device := capture.NewDevice(capture.Config{
			Device: cfg.Capture.Device,
			FFmpeg: cfg.Capture.FFmpeg,
		}, nil, logger)
		opts = append(opts, scan.WithCamera(device))
	}
	controller := scan.NewController(recognizer, surface, opts...)

	scanCtx, cancel := common.WithTimeout(ctx, cfg.Scan.Timeout)
	defer cancel()

	var err error
	if *camera {
		if err = controller.StartCamera(scanCtx); err == nil {
			_, err = controller.ScanFromCamera(scanCtx)
			controller.StopCamera()
		}
	} else {
		_, err = controller.ScanImage(scanCtx, capture.FileInput{Paths: []string{*file}})
	}
	if err != nil {
		logger.Debug("scan failed", "status", scan.StatusOf(err), "error", err)
		os.Exit(1)
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Scan.FPS))
	defer ticker.Stop()
	if err := controller.DriveMeter(ctx, ticker.C); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("meter animation stopped", "error", err)
		os.Exit(1)
	}
}
