// Package endpoints defines the HTTP API surface. Each endpoint is both a
// route and a CLI command, registered through the api.Registry.
package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/triagekit/triage/internal/api"
	"github.com/triagekit/triage/internal/ollama"
)

// Config passes dependencies that live outside the request context.
type Config struct {
	// OllamaManager is set when the server manages its own Ollama
	// container; nil otherwise.
	OllamaManager *ollama.DockerManager
}

// All returns every endpoint in registration order.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ModelStatusEndpoint{OllamaManager: cfg.OllamaManager},
		&ParseEMREndpoint{},
		&PredictEndpoint{},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Detail: msg})
}
