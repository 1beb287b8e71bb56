package providers

import (
	"context"
	"fmt"
	"sync/atomic"
)

const MockName = "mock"

// MockGenerator is a Generator for testing.
type MockGenerator struct {
	// Configurable behavior
	Response   string
	ShouldFail bool
	Err        error

	// State
	requestCount atomic.Int64
	LastPrompt   atomic.Value // string
}

// NewMockGenerator creates a mock generator that returns the given text.
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (m *MockGenerator) Name() string  { return MockName }
func (m *MockGenerator) Model() string { return "mock-model" }

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.requestCount.Add(1)
	m.LastPrompt.Store(prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.ShouldFail {
		if m.Err != nil {
			return "", m.Err
		}
		return "", fmt.Errorf("mock generator failure")
	}
	return m.Response, nil
}

// Requests returns how many Generate calls were made.
func (m *MockGenerator) Requests() int64 {
	return m.requestCount.Load()
}

// MockOCR is an OCRProvider for testing.
type MockOCR struct {
	Text      string
	Installed bool
	Err       error
}

func (m *MockOCR) Name() string    { return MockName }
func (m *MockOCR) Available() bool { return m.Installed }

func (m *MockOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
