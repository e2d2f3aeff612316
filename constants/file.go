package constants

import "strings"

// Source formats understood by the OCR extractor.
const (
	IMAGE = "IMAGE"
	HEIC  = "HEIC"
)

// AllowedExtensions holds the image extensions accepted for label scans.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
	"heic": {},
	"heif": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsAllowedExt reports whether ext (with or without dot) is a scannable image.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// IsHEICExt reports whether ext needs conversion before tesseract can read it.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif":
		return true
	}
	return false
}

// MapExtToFormat maps an extension to HEIC, IMAGE or "" when unsupported.
func MapExtToFormat(ext string) string {
	if !IsAllowedExt(ext) {
		return ""
	}
	if IsHEICExt(ext) {
		return HEIC
	}
	return IMAGE
}
