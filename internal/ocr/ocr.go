package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
)

// ErrUnsupportedFormat is returned for files that are not scannable images.
var ErrUnsupportedFormat = errors.New("unsupported image format")

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string

	HeicConverter       string // "heif-convert" | "magick" | "sips"
	EnableTSVConfidence bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	ArtifactCacheDir string
}

type ExtractionResult struct {
	Text       string // normalised, for display and confidence scoring
	Raw        string // tesseract stdout as returned
	SourceType string // constants.IMAGE | constants.HEIC
	Method     string // "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Progress is a recognition lifecycle event, passed through for logging.
type Progress struct {
	Status   string  // "loading" | "converting" | "recognizing" | "scoring" | "done"
	Progress float64 // 0..1
}

// ProgressFunc receives progress events; it must not block.
type ProgressFunc func(Progress)

type Option func(*Extractor)

// WithRunner replaces the command runner (tests stub tesseract this way).
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithProgress registers a progress listener.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Extractor) { e.progress = fn }
}

type Extractor struct {
	cfg      Config
	runner   Runner
	logger   *slog.Logger
	progress ProgressFunc
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.ArtifactCacheDir == "" {
		cfg.ArtifactCacheDir = "./tmp"
	}
	e := &Extractor{cfg: cfg, runner: NewExecRunner(logger), logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Language is the tesseract language the extractor recognises.
func (e *Extractor) Language() string { return e.cfg.TesseractLang }

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting ocr extraction", "path", path, "ext", ext)
	e.emit(Progress{Status: "loading"})

	var warns []string
	switch constants.MapExtToFormat(ext) {
	case constants.HEIC:
		e.emit(Progress{Status: "converting", Progress: 0.1})
		out, w, cleanup, err := convertHEICtoPNG(ctx, e.runner, e.cfg.HeicConverter, path, e.cfg.ArtifactCacheDir)
		warns = append(warns, w...)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			e.logger.Error("heic conversion failed", "path", path, "error", err)
			return ExtractionResult{SourceType: constants.HEIC, Warnings: warns}, err
		}
		res, err := e.extractImage(ctx, out)
		res.SourceType = constants.HEIC
		res.Duration = time.Since(start)
		res.Warnings = append(res.Warnings, warns...)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (e *Extractor) emit(p Progress) {
	e.logger.Debug("ocr progress", "status", p.Status, "progress", p.Progress)
	if e.progress != nil {
		e.progress(p)
	}
}
