package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Parser converts raw document bytes into plain text. The text it
// returns is not yet normalized; Extract applies the cleaning pass.
type Parser interface {
	Parse(r io.Reader, filename string) (string, error)
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

// PDFFallbackPdftotext enables shelling out to pdftotext when the
// native PDF decoder fails. Set once at startup.
var PDFFallbackPdftotext = true

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
		return &PDFParser{FallbackPdftotext: PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ExtractionError reports an unreadable source or a document that
// yielded no extractable text. It is fatal for that document.
type ExtractionError struct {
	Source string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Source, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract parses a document and returns its normalized plain text.
// Page and line order is preserved. Returns *ExtractionError if the
// source cannot be decoded or contains no extractable characters.
func Extract(r io.Reader, filename string) (string, error) {
	p, err := ForFile(filename)
	if err != nil {
		return "", &ExtractionError{Source: filename, Reason: "unsupported format", Err: err}
	}

	raw, err := p.Parse(r, filename)
	if err != nil {
		return "", &ExtractionError{Source: filename, Reason: "decode failed", Err: err}
	}

	text := Normalize(raw)
	if text == "" {
		return "", &ExtractionError{Source: filename, Reason: "no extractable text"}
	}
	return text, nil
}
