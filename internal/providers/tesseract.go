package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const TesseractName = "tesseract"

// TesseractConfig configures the local tesseract binary.
type TesseractConfig struct {
	Binary      string // binary name or absolute path; default "tesseract"
	Language    string // default "eng"
	TessdataDir string // optional --tessdata-dir
	Runner      Runner // optional (tests)
}

// TesseractOCR shells out to a locally installed Tesseract engine.
// Tesseract reads from a file path, so image bytes are staged through a
// temp file per call.
type TesseractOCR struct {
	cfg    TesseractConfig
	runner Runner
}

// NewTesseractOCR creates a tesseract-backed OCR provider.
func NewTesseractOCR(cfg TesseractConfig) *TesseractOCR {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	runner := cfg.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return &TesseractOCR{cfg: cfg, runner: runner}
}

func (t *TesseractOCR) Name() string { return TesseractName }

// Available reports whether the tesseract binary is on PATH (or at the
// configured absolute path).
func (t *TesseractOCR) Available() bool {
	return t.runner.LookPath(t.cfg.Binary)
}

// ExtractText OCRs a single image.
func (t *TesseractOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "triage-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to stage image: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return t.ExtractFile(ctx, path)
}

// ExtractFile OCRs an image already on disk, avoiding a second copy when
// the caller staged the file itself (PDF page rasters).
func (t *TesseractOCR) ExtractFile(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", t.cfg.Language}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w (%s)", filepath.Base(path), err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(string(out)), nil
}
