package web

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
	"github.com/joseph-ayodele/ingredient-scanner/internal/capture"
	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
	"github.com/joseph-ayodele/ingredient-scanner/internal/meter"
	"github.com/joseph-ayodele/ingredient-scanner/internal/scan"
)

const maxEvaluateText = 20000

// Handler serves the page and the scan API.
type Handler struct {
	recognizer scan.Recognizer
	recorder   scan.Recorder
	logger     *slog.Logger
	uploadDir  string
	maxUpload  int
	timeout    time.Duration
}

type scanResponse struct {
	State  scan.UIState        `json:"state"`
	Frames []meter.State       `json:"frames"`
	Result *ingredients.Result `json:"result,omitempty"`
}

type errorResponse struct {
	Status constants.ScanStatus `json:"status"`
	Error  string               `json:"error"`
	State  *scan.UIState        `json:"state,omitempty"`
}

type evaluateRequest struct {
	Text string `json:"text"`
}

// Index renders the scanner page.
func (h *Handler) Index(c fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title":         "Ingredient Scanner",
		"Nav":           menu(),
		"Rules":         ingredients.Rules(),
		"Circumference": meter.Circumference,
	})
}

// About renders the about page.
func (h *Handler) About(c fiber.Ctx) error {
	return c.Render("about", fiber.Map{
		"Title": "About",
		"Nav":   menu(),
		"Rules": ingredients.Rules(),
	})
}

// Health reports liveness.
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Rules lists the flagged keywords.
func (h *Handler) Rules(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"rules": ingredients.Rules()})
}

// Scan runs OCR on the uploaded "image" field and returns the final UI state
// together with every meter frame of the run.
func (h *Handler) Scan(c fiber.Ctx) error {
	st, err := h.runScan(c)
	if err != nil {
		return h.scanError(c, st, err)
	}
	if err := ingredients.ValidateResult(*st.Result); err != nil {
		h.logger.Error("result failed contract check", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Status: constants.ScanStatusRecognitionFailed,
			Error:  scan.MsgScanError,
		})
	}
	return c.JSON(scanResponse{State: st, Frames: framesFor(*st.Result), Result: st.Result})
}

// Card runs the same scan as Scan but answers with the rendered card partial.
func (h *Handler) Card(c fiber.Ctx) error {
	st, err := h.runScan(c)
	if err != nil && st.Card == nil {
		return h.scanError(c, st, err)
	}
	if err != nil {
		c.Status(statusFor(err))
	}
	return c.Render("partials/card", fiber.Map{"State": st, "Circumference": meter.Circumference}, "")
}

// Evaluate scores raw text without OCR.
func (h *Handler) Evaluate(c fiber.Ctx) error {
	var req evaluateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Status: constants.ScanStatusNoInput,
			Error:  "invalid request body",
		})
	}

	v := common.NewValidator().Field("text", req.Text, common.MaxLength(maxEvaluateText))
	if v.HasErrors() {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Status: constants.ScanStatusNoInput,
			Error:  v.ErrorMessage(),
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{
			Status: constants.ScanStatusNoText,
			Error:  scan.MsgNoText,
		})
	}

	result := ingredients.Evaluate(req.Text)
	if h.recorder != nil {
		h.recorder.ObserveResult(result)
	}
	return c.JSON(fiber.Map{"result": result, "frames": framesFor(result)})
}

// runScan saves the upload, if any, and scans it on a request-scoped controller.
func (h *Handler) runScan(c fiber.Ctx) (scan.UIState, error) {
	ctx := common.WithRequestID(c.Context(), requestid.FromContext(c))
	ctx, cancel := common.WithTimeout(ctx, h.timeout)
	defer cancel()

	logger := h.logger.With("request_id", common.RequestIDFromContext(ctx))

	input, cleanup, err := h.saveUpload(c)
	if err != nil {
		return scan.UIState{}, err
	}
	defer cleanup()

	controller := scan.NewController(h.recognizer, nil,
		scan.WithLogger(logger),
		scan.WithRecorder(h.recorder),
	)
	return controller.ScanImage(ctx, input)
}

// saveUpload stores the multipart "image" field in a fresh temp directory.
// A request without the field yields an empty FileInput.
func (h *Handler) saveUpload(c fiber.Ctx) (capture.FileInput, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("image")
	if err != nil {
		return capture.FileInput{}, noop, nil
	}
	if fh.Size > int64(h.maxUpload) {
		return capture.FileInput{}, noop, fiber.NewError(fiber.StatusRequestEntityTooLarge, "image too large")
	}

	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = "png"
	}
	if !constants.IsAllowedExt(ext) {
		return capture.FileInput{}, noop, fiber.NewError(fiber.StatusUnsupportedMediaType, "unsupported image type: "+ext)
	}

	dir, err := os.MkdirTemp(h.uploadDir, "upload-*")
	if err != nil {
		return capture.FileInput{}, noop, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, "label."+ext)
	if err := c.SaveFile(fh, path); err != nil {
		cleanup()
		return capture.FileInput{}, noop, err
	}
	return capture.FileInput{Paths: []string{path}}, cleanup, nil
}

func (h *Handler) scanError(c fiber.Ctx, st scan.UIState, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{Status: constants.ScanStatusNoInput, Error: fe.Message})
	}

	status := scan.StatusOf(err)
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		h.logger.Warn("scan failed", "status", status, "error", err)
	}

	msg := common.UserMessage(err, scan.MsgScanError)
	resp := errorResponse{Status: status, Error: msg}
	if st.Card != nil {
		resp.State = &st
	}
	return c.Status(code).JSON(resp)
}

// statusFor maps the scan taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, scan.ErrNoInputSelected):
		return fiber.StatusBadRequest
	case errors.Is(err, scan.ErrCaptureUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, scan.ErrRecognitionFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, scan.ErrNoTextDetected):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, scan.ErrSuperseded):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func framesFor(r ingredients.Result) []meter.State {
	return slices.Collect(meter.NewAnimation(r.Percent, r.HealthFlag).Frames())
}
