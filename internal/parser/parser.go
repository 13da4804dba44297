package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
)

var (
	// ErrNoText means a document decoded but yielded no usable text runs.
	ErrNoText = errors.New("no text content found")

	// ErrUnsupportedFormat means no parser exists for the file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Extraction is the decoder output for one document: the ordered
// TextRun stream plus extraction quality metrics.
type Extraction struct {
	Title   string // Title from document metadata or filename
	Runs    []document.TextRun
	Quality Quality
}

// Parser converts raw document bytes into an ordered TextRun stream.
type Parser interface {
	Parse(r io.Reader, filename string) (*Extraction, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseTitle strips the extension off a filename for a fallback title.
func baseTitle(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// runsFromLines converts plain text lines into a degraded TextRun
// stream (no font metadata). Blank lines advance the line counter so
// segmentation can still see layout gaps.
func runsFromLines(text string, page int) []document.TextRun {
	var runs []document.TextRun
	line := 0
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			line++
			continue
		}
		runs = append(runs, document.TextRun{
			Text: trimmed,
			Page: page,
			Line: line,
		})
		line++
	}
	return runs
}
