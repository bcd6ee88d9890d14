// Package extract turns uploaded resume files into plain text. PDF and DOCX
// readers are external collaborators; what ships here is the contract plus the
// plain-text fallback every other format goes through.
package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type Extractor interface {
	// Extract reads the upload and returns its textual content. The filename
	// is only used to pick a reader by extension.
	Extract(filename string, r io.Reader) (string, error)
}

// Reader converts a single format.
type Reader func(r io.Reader) (string, error)

type extractor struct {
	readers map[string]Reader
}

// New returns an extractor that treats unknown extensions as UTF-8 plain text.
// Format-specific readers (".pdf", ".docx") can be plugged per extension.
func New(readers map[string]Reader) Extractor {
	normalized := make(map[string]Reader, len(readers))
	for ext, reader := range readers {
		normalized[strings.ToLower(ext)] = reader
	}
	return &extractor{readers: normalized}
}

func (e *extractor) Extract(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if reader, ok := e.readers[ext]; ok {
		return reader(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return string(data), nil
}
