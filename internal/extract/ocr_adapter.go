package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
)

// OCRAdapter turns a TextExtractor into the scanner's recogniser.
type OCRAdapter struct {
	e        TextExtractor
	logger   *slog.Logger
	observer DurationObserver
}

func NewOCRAdapter(e TextExtractor, observer DurationObserver, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, observer: observer, logger: logger}
}

// Recognize returns the text tesseract found in the image at path, unmodified,
// so ingredient matching sees exactly what was recognised.
func (a *OCRAdapter) Recognize(ctx context.Context, path string) (string, error) {
	logger := a.logger
	if id, ok := common.ScanIDFromContext(ctx); ok {
		logger = logger.With("scan_id", id.String())
	}
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		logger = logger.With("request_id", rid)
	}

	start := time.Now()
	r, err := a.e.Extract(ctx, path)
	if a.observer != nil {
		a.observer.ObserveOCR(time.Since(start), err)
	}
	if err != nil {
		return "", fmt.Errorf("recognize %s: %w", path, err)
	}
	if len(r.Warnings) > 0 {
		logger.Warn("ocr warnings", "path", path, "warnings", r.Warnings)
	}
	logger.Info("ocr ok",
		"path", path,
		"method", r.Method,
		"language", r.Language,
		"bytes", len(r.Text),
		"confidence", r.Confidence,
		"duration_ms", r.Duration.Milliseconds(),
	)
	if r.Raw == "" {
		return r.Text, nil
	}
	return r.Raw, nil
}
