package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/ingredient-scanner/internal/ocr"
)

// TextExtractor is the OCR stage: image file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// DurationObserver receives the wall time of each recognition call.
type DurationObserver interface {
	ObserveOCR(d time.Duration, err error)
}
