// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/triagekit/triage/internal/config"
	"github.com/triagekit/triage/internal/document"
	"github.com/triagekit/triage/internal/extract"
	"github.com/triagekit/triage/internal/predictor"
	"github.com/triagekit/triage/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Registry  *providers.Registry
	Documents *document.Extractor
	Pipeline  *extract.Pipeline
	Predictor *predictor.Handle
	Config    *config.Manager
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// DocumentsFrom extracts the document text extractor from context.
func DocumentsFrom(ctx context.Context) *document.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Documents
	}
	return nil
}

// PipelineFrom extracts the field extraction pipeline from context.
func PipelineFrom(ctx context.Context) *extract.Pipeline {
	if s := ServicesFrom(ctx); s != nil {
		return s.Pipeline
	}
	return nil
}

// PredictorFrom extracts the risk predictor handle from context.
func PredictorFrom(ctx context.Context) *predictor.Handle {
	if s := ServicesFrom(ctx); s != nil {
		return s.Predictor
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
