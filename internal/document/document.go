// Package document acquires plain text from uploaded clinical files. Each
// supported format has its own strategy; PDFs get a two-tier fallback
// (digital text layer, then bounded OCR) while images only have the OCR
// tier since no other text source exists.
package document

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/triagekit/triage/internal/providers"
)

// Config configures the external tools used for PDF handling.
type Config struct {
	Pdftotext   string // binary name or absolute path; default "pdftotext"
	Pdftoppm    string // binary name or absolute path; default "pdftoppm"
	DPI         int    // rasterization DPI for scanned PDFs, default 300
	MaxOCRPages int    // OCR page cap for scanned PDFs, default 3

	Runner providers.Runner // optional (tests)
}

// Extractor dispatches on file extension and returns best-effort plain
// text. The OCR provider is optional; when absent, formats that need it
// fail with a capability error.
type Extractor struct {
	cfg    Config
	runner providers.Runner
	ocr    providers.OCRProvider
	logger *slog.Logger
}

// NewExtractor creates a document text extractor. ocr may be nil.
func NewExtractor(cfg Config, ocr providers.OCRProvider, logger *slog.Logger) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxOCRPages <= 0 {
		cfg.MaxOCRPages = 3
	}
	runner := cfg.Runner
	if runner == nil {
		runner = providers.ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: runner, ocr: ocr, logger: logger}
}

// ExtractText returns the plain text of an uploaded file. The extension of
// filename (case-insensitive) selects the strategy.
func (e *Extractor) ExtractText(ctx context.Context, filename string, contents []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return e.extractPDF(ctx, contents)
	case ".docx":
		return extractDOCX(contents)
	case ".txt", ".csv", ".json", ".xml":
		return decodeUTF8(contents), nil
	case ".doc":
		// Legacy binary .doc is not parsed; a Latin-1 decode of the raw
		// bytes is a degraded best-effort path that may yield garbage.
		return decodeLatin1(contents), nil
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff", ".tif":
		return e.extractImage(ctx, contents)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// OCRAvailable reports whether the OCR tier is usable, for status
// endpoints.
func (e *Extractor) OCRAvailable() bool {
	return e.ocr != nil && e.ocr.Available()
}

func (e *Extractor) extractImage(ctx context.Context, contents []byte) (string, error) {
	if e.ocr == nil || !e.ocr.Available() {
		return "", &CapabilityError{Format: "image", Missing: []string{"tesseract OCR"}}
	}
	text, err := e.ocr.ExtractText(ctx, contents)
	if err != nil {
		e.logger.Debug("image OCR failed", "error", err)
		return "", &CapabilityError{Format: "image", Missing: []string{"tesseract OCR"}}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &CapabilityError{Format: "image", Missing: []string{"tesseract OCR"}}
	}
	return text, nil
}

// decodeUTF8 decodes bytes as UTF-8, dropping undecodable sequences.
func decodeUTF8(contents []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(contents), ""))
}

// decodeLatin1 decodes bytes as ISO 8859-1. Every byte is valid Latin-1,
// so this cannot fail; it can only be meaningless.
func decodeLatin1(contents []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(contents)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(decoded))
}
