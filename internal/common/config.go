package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	OCR     OCRConfig
	Capture CaptureConfig
	Scan    ScanConfig
	Log     LogConfig
}

// ServerConfig holds listener addresses for the daemon
type ServerConfig struct {
	HTTPAddr       string
	GRPCAddr       string
	MaxUploadBytes int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract           string
	TesseractLang       string
	TessdataDir         string
	HeicConverter       string
	ArtifactCacheDir    string
	EnableTSVConfidence bool
	PSM                 int
}

// CaptureConfig describes the camera device used by the CLI scanner
type CaptureConfig struct {
	Device string
	FFmpeg string
}

// ScanConfig holds per-scan limits
type ScanConfig struct {
	Timeout time.Duration
	FPS     int
}

type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":3000"),
			GRPCAddr:       getEnv("GRPC_ADDR", ":8080"),
			MaxUploadBytes: getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20),
		},
		OCR: OCRConfig{
			Tesseract:           getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang:       getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:         getEnv("TESSDATA_PREFIX", ""),
			HeicConverter:       getEnv("HEIC_CONVERTER", "magick"),
			ArtifactCacheDir:    getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
			EnableTSVConfidence: getEnvAsBool("OCR_TSV_CONFIDENCE", false),
			PSM:                 getEnvAsInt("TESSERACT_PSM", 0),
		},
		Capture: CaptureConfig{
			Device: getEnv("CAPTURE_DEVICE", "/dev/video0"),
			FFmpeg: getEnv("FFMPEG_BIN", "ffmpeg"),
		},
		Scan: ScanConfig{
			Timeout: getEnvAsDuration("SCAN_TIMEOUT", 90*time.Second),
			FPS:     getEnvAsInt("METER_FPS", 60),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("HTTP_ADDR", c.Server.HTTPAddr, Required).
		Field("GRPC_ADDR", c.Server.GRPCAddr, Required).
		Field("TESSERACT_BIN", c.OCR.Tesseract, Required).
		Field("TESSERACT_LANG", c.OCR.TesseractLang, Required).
		Field("HEIC_CONVERTER", c.OCR.HeicConverter, OneOf("heif-convert", "magick", "sips")).
		Field("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes, Positive).
		Field("METER_FPS", c.Scan.FPS, Positive)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
