package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage/internal/api"
	"github.com/triagekit/triage/internal/predictor"
	"github.com/triagekit/triage/internal/svcctx"
)

// PredictEndpoint handles POST /api/predict: patient_data in, shaped
// triage recommendation out.
type PredictEndpoint struct{}

func (e *PredictEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/predict", e.handler
}

func (e *PredictEndpoint) RequiresInit() bool { return false }

func (e *PredictEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	h := svcctx.PredictorFrom(r.Context())
	if h == nil || !h.Ready() {
		modelsDir := "unknown"
		if h != nil {
			modelsDir = h.ModelsDir()
		}
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("Predictor not initialized. Check models path: %s", modelsDir))
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	patientData, ok := body["patient_data"].(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing patient_data")
		return
	}

	normalized := predictor.Normalize(patientData)
	result, err := h.Predict(r.Context(), normalized)
	if err != nil {
		if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
			logger.Error("prediction failed", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	writeJSON(w, http.StatusOK, predictor.Shape(result, normalized))
}

func (e *PredictEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <patient.json>",
		Short: "Run a triage risk prediction for a patient snapshot",
		Long: `Reads a JSON file describing the patient and asks the server for a
triage recommendation. The file holds the patient fields directly:

  {"age": 68, "symptoms": ["chest pain"], "blood_pressure": "150/95"}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var patient map[string]any
			if err := json.Unmarshal(data, &patient); err != nil {
				return fmt.Errorf("invalid patient JSON: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp predictor.TriageResponse
			if err := client.Post(cmd.Context(), "/api/predict",
				map[string]any{"patient_data": patient}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
