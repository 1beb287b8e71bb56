// Package providers holds the optional external capabilities the pipeline
// leans on: OCR engines and generative text services. Every capability sits
// behind a narrow interface and absence is a normal runtime state, checked
// explicitly rather than discovered by panics deep in a request.
package providers

import "context"

// Generator produces JSON text from a single instruction prompt. The
// secondary extractor is the only consumer; it treats every error as
// "no secondary data" and degrades to deterministic-only results.
type Generator interface {
	// Name returns the provider identifier (e.g. "ollama", "openai").
	Name() string

	// Model returns the configured target model identifier.
	Model() string

	// Generate sends the prompt and returns the raw response text, which
	// is expected (but not guaranteed) to be a JSON object.
	Generate(ctx context.Context, prompt string) (string, error)
}

// OCRProvider extracts plain text from a single image.
type OCRProvider interface {
	// Name returns the provider identifier (e.g. "tesseract").
	Name() string

	// Available reports whether the backing engine is installed. Callers
	// check this before building fallback chains so a missing engine can
	// be surfaced as a capability error instead of an exec failure.
	Available() bool

	// ExtractText runs optical character recognition over image bytes and
	// returns the recognized text, trimmed. An empty string with nil error
	// means the engine ran but found nothing.
	ExtractText(ctx context.Context, image []byte) (string, error)
}
