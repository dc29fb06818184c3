// Package ingest reads card files from the local filesystem and watches
// drop folders for new scans.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/cardscan/constants"
	"github.com/joseph-ayodele/cardscan/internal/ocr"
)

// ReadLines loads the card file at path and yields its ordered, normalized
// lines. The only failure mode is the I/O boundary: a missing or unreadable
// file surfaces as an error, never a partial result.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card file: %w", err)
	}
	return ocr.SplitLines(string(data)), nil
}

// AllowedExt checks if a file extension is in the allowed set (defaults to txt/text/ocr).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// HashText returns the sha256 hex digest of s, used to dedupe cards by content.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
