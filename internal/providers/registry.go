package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds references to generators and OCR providers. Access is
// thread-safe; registration normally happens once at startup but config
// reloads may swap providers while requests are in flight.
type Registry struct {
	mu           sync.RWMutex
	generators   map[string]Generator
	ocrProviders map[string]OCRProvider
	defaultLLM   string
	logger       *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		generators:   make(map[string]Generator),
		ocrProviders: make(map[string]OCRProvider),
		logger:       slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers a generator by name.
func (r *Registry) RegisterLLM(name string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = g
	if r.logger != nil {
		r.logger.Info("registered LLM provider", "name", name, "model", g.Model())
	}
}

// RegisterOCR registers an OCR provider by name.
func (r *Registry) RegisterOCR(name string, p OCRProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ocrProviders[name] = p
	if r.logger != nil {
		r.logger.Info("registered OCR provider", "name", name, "available", p.Available())
	}
}

// SetDefaultLLM marks the generator used by the secondary extractor.
func (r *Registry) SetDefaultLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultLLM = name
}

// DefaultLLM returns the generator configured for the secondary extractor,
// or nil when none is registered. Absence is normal: the pipeline runs
// deterministic-only.
func (r *Registry) DefaultLLM() Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.generators[r.defaultLLM]; ok {
		return g
	}
	return nil
}

// GetLLM returns a generator by name.
func (r *Registry) GetLLM(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("LLM provider not found: %s", name)
	}
	return g, nil
}

// GetOCR returns an OCR provider by name.
func (r *Registry) GetOCR(name string) (OCRProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.ocrProviders[name]
	if !ok {
		return nil, fmt.Errorf("OCR provider not found: %s", name)
	}
	return p, nil
}

// ListLLM returns all registered generator names.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	return names
}

// ListOCR returns all registered OCR provider names.
func (r *Registry) ListOCR() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ocrProviders))
	for name := range r.ocrProviders {
		names = append(names, name)
	}
	return names
}
