package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage/internal/api"
	"github.com/triagekit/triage/internal/ollama"
	"github.com/triagekit/triage/internal/svcctx"
)

// ModelStatusResponse reports readiness of the prediction and extraction
// backends.
type ModelStatusResponse struct {
	PredictorReady  bool   `json:"predictor_ready"`
	ModelsDir       string `json:"models_dir"`
	PredictorError  string `json:"predictor_error,omitempty"`
	LLMEndpoint     string `json:"llm_endpoint"`
	LLMModel        string `json:"llm_model"`
	OCRAvailable    bool   `json:"ocr_available"`
	OllamaContainer string `json:"ollama_container,omitempty"`
}

// ModelStatusEndpoint handles GET /api/model-status.
type ModelStatusEndpoint struct {
	// OllamaManager is set by the server when it manages the container.
	OllamaManager *ollama.DockerManager
}

func (e *ModelStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/model-status", e.handler
}

func (e *ModelStatusEndpoint) RequiresInit() bool { return false }

func (e *ModelStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var resp ModelStatusResponse

	if h := svcctx.PredictorFrom(r.Context()); h != nil {
		resp.PredictorReady = h.Ready()
		resp.ModelsDir = h.ModelsDir()
		if err := h.Err(); err != nil {
			resp.PredictorError = err.Error()
		}
	}

	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		if gen := registry.DefaultLLM(); gen != nil {
			resp.LLMModel = gen.Model()
		}
	}
	if mgr := svcctx.ConfigFrom(r.Context()); mgr != nil {
		cfg := mgr.Get()
		resp.LLMEndpoint = cfg.LLM.OllamaURL + "/api/generate"
	}

	if docs := svcctx.DocumentsFrom(r.Context()); docs != nil {
		resp.OCRAvailable = docs.OCRAvailable()
	}

	if e.OllamaManager != nil {
		status, err := e.OllamaManager.Status(r.Context())
		if err != nil {
			resp.OllamaContainer = "error"
		} else {
			resp.OllamaContainer = string(status)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ModelStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "model-status",
		Short: "Inspect predictor and LLM readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ModelStatusResponse
			if err := client.Get(cmd.Context(), "/api/model-status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
