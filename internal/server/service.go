package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/ingredient-scanner/internal/capture"
	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
	"github.com/joseph-ayodele/ingredient-scanner/internal/scan"
)

const maxEvaluateText = 20000

type ScanService struct {
	recognizer scan.Recognizer
	recorder   scan.Recorder
	uploadDir  string
	maxUpload  int
	timeout    time.Duration
	logger     *slog.Logger
}

var _ ScanServiceServer = (*ScanService)(nil)

type ScanServiceConfig struct {
	UploadDir      string
	MaxUploadBytes int
	ScanTimeout    time.Duration
}

func NewScanService(rec scan.Recognizer, recorder scan.Recorder, cfg ScanServiceConfig, logger *slog.Logger) *ScanService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = os.TempDir()
	}
	return &ScanService{
		recognizer: rec,
		recorder:   recorder,
		uploadDir:  cfg.UploadDir,
		maxUpload:  cfg.MaxUploadBytes,
		timeout:    cfg.ScanTimeout,
		logger:     logger,
	}
}

// Evaluate scores text without OCR.
func (s *ScanService) Evaluate(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	text := req.GetValue()

	v := common.NewValidator().Field("text", text, common.MaxLength(maxEvaluateText))
	if v.HasErrors() {
		s.logger.Error("evaluate request invalid", "error", v.ErrorMessage())
		return nil, common.InvalidArgumentError(v.ErrorMessage())
	}
	if strings.TrimSpace(text) == "" {
		return nil, common.FailedPreconditionError(scan.MsgNoText)
	}

	result := ingredients.Evaluate(text)
	if s.recorder != nil {
		s.recorder.ObserveResult(result)
	}
	return resultStruct(map[string]any{"result": result}, &result)
}

// ScanImage recognises the image bytes and evaluates the text.
func (s *ScanService) ScanImage(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	ctx, requestID := common.EnsureRequestID(ctx)
	ctx, cancel := common.WithTimeout(ctx, s.timeout)
	defer cancel()
	logger := s.logger.With("request_id", requestID)

	data := req.GetValue()
	if s.maxUpload > 0 && len(data) > s.maxUpload {
		return nil, common.InvalidArgumentErrorf("image exceeds %d bytes", s.maxUpload)
	}

	input := capture.FileInput{}
	if len(data) > 0 {
		ext, err := sniffExt(data)
		if err != nil {
			logger.Error("scan image rejected", "error", err)
			return nil, common.InvalidArgumentError(err.Error())
		}
		dir, err := os.MkdirTemp(s.uploadDir, "grpc-*")
		if err != nil {
			logger.Error("failed to create upload dir", "error", err)
			return nil, common.InternalError("store image failed")
		}
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "label."+ext)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			logger.Error("failed to write upload", "error", err)
			return nil, common.InternalError("store image failed")
		}
		input.Paths = []string{path}
	}

	controller := scan.NewController(s.recognizer, nil,
		scan.WithLogger(logger),
		scan.WithRecorder(s.recorder),
	)
	st, err := controller.ScanImage(ctx, input)
	if err != nil {
		return nil, statusFor(err)
	}
	return resultStruct(map[string]any{"state": st, "result": st.Result}, st.Result)
}

// Rules lists the flagged keywords.
func (s *ScanService) Rules(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(map[string]any{"rules": ingredients.Rules()})
}

// statusFor maps the scan taxonomy onto gRPC status codes.
func statusFor(err error) error {
	msg := common.UserMessage(err, scan.MsgScanError)
	switch {
	case errors.Is(err, scan.ErrNoInputSelected):
		return common.InvalidArgumentError(msg)
	case errors.Is(err, scan.ErrCaptureUnavailable):
		return common.UnavailableError(msg)
	case errors.Is(err, scan.ErrNoTextDetected):
		return common.FailedPreconditionError(msg)
	case errors.Is(err, scan.ErrSuperseded):
		return common.AbortedError(msg)
	default:
		return common.InternalError(msg)
	}
}

func resultStruct(v any, r *ingredients.Result) (*structpb.Struct, error) {
	if r != nil {
		if err := ingredients.ValidateResult(*r); err != nil {
			return nil, common.InternalErrorf("result contract: %v", err)
		}
	}
	return toStruct(v)
}

// toStruct round-trips v through JSON so the struct carries the same field
// names as the HTTP API.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

var heicBrands = [][]byte{[]byte("heic"), []byte("heix"), []byte("mif1"), []byte("msf1"), []byte("heif")}

// sniffExt picks a file extension for raw image bytes.
func sniffExt(data []byte) (string, error) {
	if len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")) {
		for _, brand := range heicBrands {
			if bytes.Equal(data[8:12], brand) {
				return "heic", nil
			}
		}
	}
	switch ct := http.DetectContentType(data); ct {
	case "image/png":
		return "png", nil
	case "image/jpeg":
		return "jpg", nil
	case "image/webp":
		return "webp", nil
	case "image/bmp":
		return "bmp", nil
	default:
		if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
			return "tiff", nil
		}
		return "", fmt.Errorf("unsupported image content %q", ct)
	}
}
