package constants

// ScanStatus is the terminal outcome of one scan attempt.
type ScanStatus string

// Stable values; they appear in logs, metrics labels and batch reports.
const (
	ScanStatusOK                 ScanStatus = "OK"
	ScanStatusNoInput            ScanStatus = "NO_INPUT"            // nothing selected / camera not started
	ScanStatusCaptureUnavailable ScanStatus = "CAPTURE_UNAVAILABLE" // camera could not be opened
	ScanStatusRecognitionFailed  ScanStatus = "RECOGNITION_FAILED"  // OCR engine error
	ScanStatusNoText             ScanStatus = "NO_TEXT"             // OCR ok, but blank text
	ScanStatusSuperseded         ScanStatus = "SUPERSEDED"          // a newer scan took over
)

// ScanStatuses lists every status in a stable order.
var ScanStatuses = []ScanStatus{
	ScanStatusOK,
	ScanStatusNoInput,
	ScanStatusCaptureUnavailable,
	ScanStatusRecognitionFailed,
	ScanStatusNoText,
	ScanStatusSuperseded,
}
