package constants

import "strings"

// AllowedExtensions holds the default allowed file extensions for card ingestion.
// Cards arrive as OCR transcriptions, so only text-bearing formats are accepted.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"text": {},
	"ocr":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
