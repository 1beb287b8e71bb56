package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	OllamaName = "ollama"

	// DefaultOllamaTimeout bounds a single generate call. There is no
	// retry: a slow or unreachable model degrades the request to
	// deterministic-only extraction.
	DefaultOllamaTimeout = 20 * time.Second
)

// OllamaConfig configures a local Ollama generate endpoint.
type OllamaConfig struct {
	BaseURL    string // e.g. "http://localhost:11434"
	Model      string // e.g. "llama3.2:3b"
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
}

// OllamaClient calls Ollama's /api/generate with non-streaming, JSON-
// formatted output.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// NewOllamaClient creates a generator backed by a local Ollama server.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultOllamaTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &OllamaClient{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  client,
	}
}

func (c *OllamaClient) Name() string  { return OllamaName }
func (c *OllamaClient) Model() string { return c.model }

// URL returns the generate endpoint, for status reporting.
func (c *OllamaClient) URL() string { return c.baseURL + "/api/generate" }

// Generate sends the prompt and returns the model's response text.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, truncate(string(respBody), 512))
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if genResp.Response == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}
	return genResp.Response, nil
}
