// Package capture grabs still frames from a camera device and models the
// single-file upload input.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/ingredient-scanner/internal/ocr"
)

var (
	// ErrAccessDenied covers a missing device as well as a permission failure.
	ErrAccessDenied = errors.New("camera access denied or unavailable")
	ErrNoStream     = errors.New("camera not started")
)

type Config struct {
	Device  string // e.g. /dev/video0
	FFmpeg  string // binary name or absolute path; if empty -> "ffmpeg"
	Format  string // ffmpeg input format; if empty -> "v4l2"
	TempDir string // where frames are written; if empty -> os.TempDir()
}

// Stream is an acquired capture device.
type Stream struct {
	Device   string
	OpenedAt time.Time
}

// Frame is one captured PNG on disk. Close removes it.
type Frame struct {
	Path    string
	cleanup func()
}

func (f Frame) Close() {
	if f.cleanup != nil {
		f.cleanup()
	}
}

// Device captures frames with ffmpeg through an ocr.Runner.
type Device struct {
	cfg    Config
	runner ocr.Runner
	logger *slog.Logger
}

func NewDevice(cfg Config, runner ocr.Runner, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.NewExecRunner(logger)
	}
	if cfg.FFmpeg == "" {
		cfg.FFmpeg = "ffmpeg"
	}
	if cfg.Format == "" {
		cfg.Format = "v4l2"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Device{cfg: cfg, runner: runner, logger: logger}
}

// Acquire checks that the device exists and can be opened for reading.
func (d *Device) Acquire(_ context.Context) (*Stream, error) {
	if strings.TrimSpace(d.cfg.Device) == "" {
		return nil, fmt.Errorf("%w: no device configured", ErrAccessDenied)
	}
	f, err := os.Open(d.cfg.Device)
	if err != nil {
		d.logger.Warn("capture device unavailable", "device", d.cfg.Device, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	_ = f.Close()
	d.logger.Info("capture device acquired", "device", d.cfg.Device)
	return &Stream{Device: d.cfg.Device, OpenedAt: time.Now()}, nil
}

// CaptureFrame grabs a single frame from s as PNG.
func (d *Device) CaptureFrame(ctx context.Context, s *Stream) (Frame, error) {
	if s == nil {
		return Frame{}, ErrNoStream
	}
	tmpDir, err := os.MkdirTemp(d.cfg.TempDir, "frame-*")
	if err != nil {
		return Frame{}, fmt.Errorf("frame dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "frame.png")

	// ffmpeg -f v4l2 -i /dev/video0 -frames:v 1 -y frame.png
	_, errb, err := d.runner.Run(ctx, d.cfg.FFmpeg,
		"-hide_banner", "-loglevel", "error",
		"-f", d.cfg.Format, "-i", s.Device,
		"-frames:v", "1", "-y", out,
	)
	if err != nil {
		cleanup()
		return Frame{}, fmt.Errorf("%w: ffmpeg: %v: %s", ErrAccessDenied, err, strings.TrimSpace(string(errb)))
	}
	if _, statErr := os.Stat(out); statErr != nil {
		cleanup()
		return Frame{}, fmt.Errorf("capture produced no frame: %w", statErr)
	}
	return Frame{Path: out, cleanup: cleanup}, nil
}

// FileInput is the upload control: zero or one selected file.
type FileInput struct {
	Paths []string
}

// Selected returns the first non-blank path, if any.
func (f FileInput) Selected() (string, bool) {
	if len(f.Paths) == 0 || strings.TrimSpace(f.Paths[0]) == "" {
		return "", false
	}
	return f.Paths[0], true
}
