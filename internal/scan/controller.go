package scan

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
	"github.com/joseph-ayodele/ingredient-scanner/internal/capture"
	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
	"github.com/joseph-ayodele/ingredient-scanner/internal/meter"
)

// Recognizer turns an image file into text.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// CaptureSource is a camera.
type CaptureSource interface {
	Acquire(ctx context.Context) (*capture.Stream, error)
	CaptureFrame(ctx context.Context, s *capture.Stream) (capture.Frame, error)
}

// Recorder receives scan outcomes (metrics).
type Recorder interface {
	ObserveScan(status constants.ScanStatus)
	ObserveResult(r ingredients.Result)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder reports every scan outcome to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithCamera enables camera scans through cam.
func WithCamera(cam CaptureSource) Option {
	return func(c *Controller) { c.camera = cam }
}

// Controller owns the UI state of one scanner page. Only the most recent scan
// may change what is rendered: each attempt takes a fresh token and results
// carrying an older token are dropped.
//
// Lock order is Controller.mu then the animator's lock; the animator renders
// through onFrame, which therefore always runs with mu held.
type Controller struct {
	mu       sync.Mutex
	state    UIState
	token    uuid.UUID
	stream   *capture.Stream
	run      *meter.Run
	animator *meter.Animator

	recognizer Recognizer
	camera     CaptureSource
	surface    Surface
	recorder   Recorder
	logger     *slog.Logger
}

// NewController returns a controller in the idle state that renders to surface.
func NewController(rec Recognizer, surface Surface, opts ...Option) *Controller {
	if surface == nil {
		surface = nopSurface{}
	}
	c := &Controller{
		recognizer: rec,
		surface:    surface,
		logger:     slog.Default(),
		state:      UIState{Meter: meter.Hidden()},
	}
	c.animator = meter.NewAnimator(c.onFrame)
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a copy of the current UI state.
func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// StartCamera acquires the camera for later ScanFromCamera calls.
func (c *Controller) StartCamera(ctx context.Context) error {
	if c.camera == nil {
		return c.fail(scanError(constants.ScanStatusCaptureUnavailable, ErrCaptureUnavailable, MsgCameraUnavailable, nil))
	}
	stream, err := c.camera.Acquire(ctx)
	if err != nil {
		c.logger.Error("camera start failed", "error", err)
		return c.fail(scanError(constants.ScanStatusCaptureUnavailable, ErrCaptureUnavailable, MsgCameraUnavailable, err))
	}
	c.mu.Lock()
	c.stream = stream
	c.mu.Unlock()
	c.logger.Info("camera started", "device", stream.Device)
	return nil
}

// StopCamera releases the stream.
func (c *Controller) StopCamera() {
	c.mu.Lock()
	c.stream = nil
	c.mu.Unlock()
}

// ScanFromCamera captures one frame from the started camera and scans it.
func (c *Controller) ScanFromCamera(ctx context.Context) (UIState, error) {
	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()
	if stream == nil || c.camera == nil {
		return c.failState(scanError(constants.ScanStatusNoInput, ErrNoInputSelected, MsgStartCamera, nil))
	}

	frame, err := c.camera.CaptureFrame(ctx, stream)
	if err != nil {
		c.logger.Error("frame capture failed", "device", stream.Device, "error", err)
		return c.failState(scanError(constants.ScanStatusCaptureUnavailable, ErrCaptureUnavailable, MsgCameraUnavailable, err))
	}
	defer frame.Close()
	return c.performOCR(ctx, frame.Path)
}

// ScanImage scans the file selected in input.
func (c *Controller) ScanImage(ctx context.Context, input capture.FileInput) (UIState, error) {
	path, ok := input.Selected()
	if !ok {
		return c.failState(scanError(constants.ScanStatusNoInput, ErrNoInputSelected, MsgUploadFirst, nil))
	}
	return c.performOCR(ctx, path)
}

// DriveMeter steps the current meter run once per tick until it reaches its
// target. It returns meter.ErrSuperseded if a newer scan replaced the run.
func (c *Controller) DriveMeter(ctx context.Context, ticks <-chan time.Time) error {
	c.mu.Lock()
	run := c.run
	c.mu.Unlock()
	if run == nil {
		return nil
	}
	return c.animator.Drive(ctx, run, ticks, meter.WithLock(&c.mu))
}

func (c *Controller) performOCR(ctx context.Context, path string) (UIState, error) {
	token := c.beginScan()
	logger := c.logger.With("scan_id", token.String())
	logger.Info("scan started", "path", path)

	text, err := c.recognizer.Recognize(common.WithScanID(ctx, token), path)
	return c.finishScan(token, text, err, logger)
}

// beginScan takes a new token, shows the loader, hides the meter and clears the card.
func (c *Controller) beginScan() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = uuid.New()
	c.run = nil
	c.state.ScanID = c.token
	c.state.Loader = true
	c.state.Card = nil
	c.state.Result = nil
	c.animator.Hide() // renders
	return c.token
}

func (c *Controller) finishScan(token uuid.UUID, text string, recErr error, logger *slog.Logger) (UIState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		logger.Info("dropping stale scan result", "current_scan_id", c.token.String())
		c.observe(constants.ScanStatusSuperseded)
		return c.state.clone(), scanError(constants.ScanStatusSuperseded, ErrSuperseded, MsgSuperseded, recErr)
	}

	if recErr != nil {
		logger.Error("scan failed", "error", recErr)
		err := scanError(constants.ScanStatusRecognitionFailed, ErrRecognitionFailed, MsgScanError, recErr)
		c.failLocked(err)
		return c.state.clone(), err
	}
	if strings.TrimSpace(text) == "" {
		logger.Info("scan found no text")
		err := scanError(constants.ScanStatusNoText, ErrNoTextDetected, MsgNoText, nil)
		c.failLocked(err)
		return c.state.clone(), err
	}

	result := ingredients.Evaluate(text)
	c.state.Loader = false
	c.state.Result = &result
	c.state.Card = &Card{
		Heading: CardHeading,
		Text:    text,
		IsGood:  true,
		Chips:   result.Chips,
		Note:    result.Note,
	}
	c.run = c.animator.Begin(result.Percent, result.HealthFlag) // renders
	c.observe(constants.ScanStatusOK)
	if c.recorder != nil {
		c.recorder.ObserveResult(result)
	}
	logger.Info("scan complete",
		"percent", result.Percent,
		"health_flag", result.HealthFlag,
		"flags", result.FlagCount(),
	)
	return c.state.clone(), nil
}

// failState is fail followed by a snapshot of the resulting state.
func (c *Controller) failState(err error) (UIState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = uuid.New()
	c.state.ScanID = c.token
	c.failLocked(err)
	return c.state.clone(), err
}

// fail supersedes any scan in flight and shows err's message.
func (c *Controller) fail(err error) error {
	_, err = c.failState(err)
	return err
}

func (c *Controller) failLocked(err error) {
	c.run = nil
	c.state.Loader = false
	c.state.Result = nil
	c.state.Card = messageCard(messageOf(err))
	c.observe(StatusOf(err))
	c.animator.Hide() // renders
}

func (c *Controller) observe(status constants.ScanStatus) {
	if c.recorder != nil {
		c.recorder.ObserveScan(status)
	}
}

// onFrame is the animator's render hook; mu is held by the caller.
func (c *Controller) onFrame(s meter.State) {
	c.state.Meter = s
	c.surface.Render(c.state.clone())
}
