// Package extract defines the text-extraction collaborators the use cases
// consume. The portal only ever works with the extracted string; pulling
// text out of PDF, DOCX or image bytes is delegated behind these interfaces.
package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat flags a file format the extractor cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// TextExtractor pulls plain text from an uploaded document.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}

// OCRReader reads text out of raw image bytes.
type OCRReader interface {
	ReadText(ctx context.Context, image []byte) (string, error)
}

// PlainText extracts UTF-8 text files. PDF and DOCX require an external
// extraction collaborator in place of this implementation.
type PlainText struct{}

// ExtractText returns the decoded contents for .txt files.
func (PlainText) ExtractText(_ context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "txt" {
		return "", ErrUnsupportedFormat
	}
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	return string(data), nil
}

// NoOCR is an OCRReader that recognizes nothing. With it wired, the local
// image-label tier never matches and every classification request goes to
// the vision model; the label-table path only activates once a real OCR
// implementation replaces this one.
type NoOCR struct{}

// ReadText always reports empty text.
func (NoOCR) ReadText(context.Context, []byte) (string, error) {
	return "", nil
}
