package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// extractPDF tries the digital text layer first, then falls back to
// rasterize-and-OCR bounded to the first MaxOCRPages pages. Digital text
// is cheap and accurate; OCR is the slow path and its page cap exists to
// bound per-request blocking time.
func (e *Extractor) extractPDF(ctx context.Context, contents []byte) (string, error) {
	pageCount, err := api.PageCount(bytes.NewReader(contents), nil)
	if err != nil {
		return "", &MalformedInputError{Format: "pdf", Err: err}
	}

	tmpDir, err := os.MkdirTemp("", "triage-pdf-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "upload.pdf")
	if err := os.WriteFile(pdfPath, contents, 0o600); err != nil {
		return "", fmt.Errorf("failed to stage PDF: %w", err)
	}

	if text := e.pdfTextLayer(ctx, pdfPath); text != "" {
		return text, nil
	}

	if text := e.pdfOCR(ctx, pdfPath, tmpDir, pageCount); text != "" {
		return text, nil
	}

	return "", &CapabilityError{
		Format:  "pdf",
		Missing: []string{"pdftotext", "pdftoppm + tesseract OCR"},
	}
}

// pdfTextLayer extracts the digital text layer with pdftotext. Pages come
// back separated by form feeds; non-empty pages are rejoined with
// newlines. Empty result means "no text layer", not an error.
func (e *Extractor) pdfTextLayer(ctx context.Context, pdfPath string) string {
	if !e.runner.LookPath(e.cfg.Pdftotext) {
		return ""
	}

	out, _, err := e.runner.Run(ctx, e.cfg.Pdftotext,
		"-layout", "-enc", "UTF-8", "-eol", "unix", pdfPath, "-")
	if err != nil {
		e.logger.Debug("pdftotext failed", "error", err)
		return ""
	}

	var pages []string
	for _, page := range strings.Split(string(out), "\f") {
		if page = strings.TrimSpace(page); page != "" {
			pages = append(pages, page)
		}
	}
	return strings.TrimSpace(strings.Join(pages, "\n"))
}

// pdfOCR rasterizes up to MaxOCRPages pages and OCRs each image. Empty
// result means the tier is unavailable or found nothing.
func (e *Extractor) pdfOCR(ctx context.Context, pdfPath, tmpDir string, pageCount int) string {
	if e.ocr == nil || !e.ocr.Available() || !e.runner.LookPath(e.cfg.Pdftoppm) {
		return ""
	}

	lastPage := pageCount
	if lastPage > e.cfg.MaxOCRPages {
		lastPage = e.cfg.MaxOCRPages
	}

	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-png",
		"-f", "1",
		"-l", fmt.Sprintf("%d", lastPage),
		"-r", fmt.Sprintf("%d", e.cfg.DPI),
		pdfPath, prefix)
	if err != nil {
		e.logger.Debug("pdftoppm failed", "error", err, "stderr", string(errb))
		return ""
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)

	var pages []string
	for _, img := range matches {
		data, err := os.ReadFile(img)
		if err != nil {
			continue
		}
		text, err := e.ocr.ExtractText(ctx, data)
		if err != nil {
			e.logger.Debug("page OCR failed", "image", filepath.Base(img), "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.TrimSpace(strings.Join(pages, "\n"))
}
