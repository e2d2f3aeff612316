package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ocr"
)

// NewRecognizer builds the tesseract-backed recogniser from application config.
func NewRecognizer(cfg common.OCRConfig, observer DurationObserver, logger *slog.Logger, opts ...ocr.Option) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:           cfg.Tesseract,
		TesseractLang:       cfg.TesseractLang,
		TessdataDir:         cfg.TessdataDir,
		HeicConverter:       cfg.HeicConverter,
		EnableTSVConfidence: cfg.EnableTSVConfidence,
		PSM:                 cfg.PSM,
		ArtifactCacheDir:    cfg.ArtifactCacheDir,
	}, logger, opts...)
	return NewOCRAdapter(extractor, observer, logger)
}
