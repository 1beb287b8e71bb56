package providers

import (
	"context"
	"fmt"
)

// DynamicGenerator resolves the registry's default generator on every
// call, so config hot reloads that swap the backend take effect without
// rebuilding the extraction pipeline.
type DynamicGenerator struct {
	Registry *Registry
}

func (d DynamicGenerator) Name() string {
	if g := d.Registry.DefaultLLM(); g != nil {
		return g.Name()
	}
	return "none"
}

func (d DynamicGenerator) Model() string {
	if g := d.Registry.DefaultLLM(); g != nil {
		return g.Model()
	}
	return ""
}

func (d DynamicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g := d.Registry.DefaultLLM()
	if g == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}
	return g.Generate(ctx, prompt)
}
