package scan

import (
	"errors"
	"fmt"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
)

// Scan failure taxonomy. Every one is terminal for the attempt.
var (
	ErrNoInputSelected    = errors.New("no input selected")
	ErrCaptureUnavailable = errors.New("capture unavailable")
	ErrRecognitionFailed  = errors.New("recognition failed")
	ErrNoTextDetected     = errors.New("no text detected")
	// ErrSuperseded marks a result that arrived after a newer scan started.
	ErrSuperseded = errors.New("scan superseded")
)

// User-visible messages.
const (
	MsgCameraUnavailable = "Camera access denied or unavailable."
	MsgStartCamera       = "Please start the camera first."
	MsgUploadFirst       = "Please upload an image first."
	MsgNoText            = "No ingredients detected."
	MsgScanError         = "Error scanning image."
	MsgSuperseded        = "A newer scan replaced this one."
)

func scanError(status constants.ScanStatus, sentinel error, msg string, cause error) error {
	wrapped := sentinel
	if cause != nil {
		wrapped = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return common.NewAppError(string(status), msg, wrapped)
}

// StatusOf classifies err; nil is ScanStatusOK.
func StatusOf(err error) constants.ScanStatus {
	switch {
	case err == nil:
		return constants.ScanStatusOK
	case errors.Is(err, ErrSuperseded):
		return constants.ScanStatusSuperseded
	case errors.Is(err, ErrNoInputSelected):
		return constants.ScanStatusNoInput
	case errors.Is(err, ErrCaptureUnavailable):
		return constants.ScanStatusCaptureUnavailable
	case errors.Is(err, ErrNoTextDetected):
		return constants.ScanStatusNoText
	default:
		return constants.ScanStatusRecognitionFailed
	}
}

func messageOf(err error) string {
	return common.UserMessage(err, MsgScanError)
}
