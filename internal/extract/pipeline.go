package extract

import (
	"context"
	"errors"
	"log/slog"

	"github.com/triagekit/triage/internal/providers"
	"github.com/triagekit/triage/internal/record"
)

// ErrNoFields reports that neither extraction stage recognized anything.
// Callers map it to an unprocessable-input response.
var ErrNoFields = errors.New("no recognizable patient data found in document")

// Pipeline reconciles the deterministic and model-assisted extractors.
// The generator is optional; without one the pipeline is the regex pass
// plus validation.
type Pipeline struct {
	gen    providers.Generator
	logger *slog.Logger
}

// NewPipeline creates an extraction pipeline. gen may be nil.
func NewPipeline(gen providers.Generator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{gen: gen, logger: logger}
}

// Extract runs both stages over text and returns the merged, bounded
// record. Secondary values win field-by-field over deterministic ones;
// the merged record is re-validated so no stage can smuggle an unbounded
// value through. ErrNoFields when the result is empty.
func (p *Pipeline) Extract(ctx context.Context, text string) (record.Partial, error) {
	det := Deterministic(text)
	p.logger.Debug("pattern extraction done", "fields", len(det))

	sec := Secondary(ctx, p.gen, text, p.logger)
	if sec != nil {
		p.logger.Debug("model extraction done", "fields", len(sec))
	}

	merged := record.Validate(record.Merge(det, sec))
	if len(merged) == 0 {
		return nil, ErrNoFields
	}
	return merged, nil
}
