package predictor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"
)

// ModelFileName is the risk model binary expected under the models dir.
const ModelFileName = "triage_risk.onnx"

// Feature vector layout. The model was trained against exactly this
// ordering; changing it silently breaks predictions.
//
//	0      age / 120
//	1..3   gender one-hot (male, female, other)
//	4      systolic / 300
//	5      diastolic / 200
//	6      heart rate / 250
//	7      (temperature - 85) / 25
//	8..15  symptom multi-hot, vocabulary order
//	16..19 condition multi-hot, vocabulary order
const (
	FeatureCount = 20
	ClassCount   = 3
)

var modelSymptoms = []string{
	"fever", "chest_pain", "shortness_of_breath", "fatigue",
	"headache", "nausea", "dizziness", "abdominal_pain",
}

var modelConditions = []string{
	"diabetes", "hypertension", "asthma", "heart_disease",
}

var riskLevels = [ClassCount]string{"Low", "Medium", "High"}

// Config locates the model and the onnxruntime shared library.
type Config struct {
	ModelsDir   string
	LibraryPath string // optional; empty uses the loader default
}

// Factor is one contributor to the risk assessment.
type Factor struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
}

// Result is a single model evaluation plus the rule-derived routing that
// accompanies it.
type Result struct {
	RiskLevel      string
	Confidence     float64 // winning class probability, 0..1
	RiskScore      float64 // high-class probability, 0..1
	Department     string
	TopFactors     []Factor
	SafetyGuidance []string
	Timestamp      string
}

// Handle owns the ONNX session for the risk model. It is initialized once
// at startup; a failed init is remembered and reported on every use so
// the service can run degraded with prediction disabled.
type Handle struct {
	cfg     Config
	logger  *slog.Logger
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	initErr error
}

// Open loads the model and prepares a session. Open never fails: an
// unloadable model produces a handle whose Err reports why and whose
// Predict fails fast.
func Open(cfg Config, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handle{cfg: cfg, logger: logger}
	h.initErr = h.initialize()
	if h.initErr != nil {
		logger.Warn("risk predictor unavailable", "models_dir", cfg.ModelsDir, "error", h.initErr)
	} else {
		logger.Info("risk predictor ready", "models_dir", cfg.ModelsDir)
	}
	return h
}

func (h *Handle) initialize() error {
	modelPath := filepath.Join(h.cfg.ModelsDir, ModelFileName)
	if _, err := os.Stat(modelPath); err != nil {
		return fmt.Errorf("model %s not found: %w", modelPath, err)
	}

	if h.cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(h.cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("onnxruntime init: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"features"}, []string{"probabilities"}, nil)
	if err != nil {
		return fmt.Errorf("loading %s: %w", modelPath, err)
	}
	h.session = session
	return nil
}

// Ready reports whether predictions are possible.
func (h *Handle) Ready() bool { return h.session != nil }

// Err returns the stored initialization error, nil when ready.
func (h *Handle) Err() error { return h.initErr }

// ModelsDir returns the configured model directory, for status reporting
// and error messages.
func (h *Handle) ModelsDir() string { return h.cfg.ModelsDir }

// Close releases the session.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != nil {
		err := h.session.Destroy()
		h.session = nil
		return err
	}
	return nil
}

// Predict evaluates the risk model for one normalized patient. The
// session is serialized with a mutex; evaluation is fast enough that a
// single session suffices.
func (h *Handle) Predict(ctx context.Context, in NormalizedInput) (*Result, error) {
	if h.session == nil {
		return nil, fmt.Errorf("risk predictor not initialized (models dir %s): %w", h.cfg.ModelsDir, h.initErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features := featureVector(in)
	input, err := ort.NewTensor(ort.NewShape(1, FeatureCount), features[:])
	if err != nil {
		return nil, fmt.Errorf("building input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, ClassCount))
	if err != nil {
		return nil, fmt.Errorf("building output tensor: %w", err)
	}
	defer output.Destroy()

	h.mu.Lock()
	err = h.session.Run([]ort.Value{input}, []ort.Value{output})
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("model evaluation: %w", err)
	}

	probs := output.GetData()
	best := 0
	for i := 1; i < ClassCount; i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	level := riskLevels[best]

	return &Result{
		RiskLevel:      level,
		Confidence:     float64(probs[best]),
		RiskScore:      float64(probs[ClassCount-1]),
		Department:     RouteDepartment(in),
		TopFactors:     TopFactors(in),
		SafetyGuidance: SafetyGuidance(level),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func featureVector(in NormalizedInput) [FeatureCount]float32 {
	var f [FeatureCount]float32

	f[0] = unit(float64(in.Age) / 120)
	switch fallbackToken(in.Gender) {
	case "male":
		f[1] = 1
	case "female":
		f[2] = 1
	default:
		f[3] = 1
	}

	systolic, diastolic := ParseBloodPressure(in.BloodPressure)
	f[4] = unit(float64(systolic) / 300)
	f[5] = unit(float64(diastolic) / 200)
	f[6] = unit(float64(in.HeartRate) / 250)
	f[7] = unit((in.Temperature - 85) / 25)

	for i, token := range modelSymptoms {
		if containsToken(in.Symptoms, token) {
			f[8+i] = 1
		}
	}
	for i, token := range modelConditions {
		if containsToken(in.PreExistingConditions, token) {
			f[16+i] = 1
		}
	}
	return f
}

func unit(v float64) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}

func containsToken(list []string, token string) bool {
	for _, s := range list {
		if s == token {
			return true
		}
	}
	return false
}

var symptomWeights = map[string]float64{
	"chest_pain":          0.9,
	"shortness_of_breath": 0.85,
	"dizziness":           0.5,
	"abdominal_pain":      0.5,
	"fever":               0.45,
	"headache":            0.4,
	"nausea":              0.4,
	"fatigue":             0.3,
}

var conditionWeights = map[string]float64{
	"heart_disease": 0.7,
	"diabetes":      0.5,
	"hypertension":  0.5,
	"asthma":        0.4,
}

// TopFactors derives the strongest contributors from the normalized
// input: abnormal vitals plus weighted symptoms and conditions, capped at
// five entries.
func TopFactors(in NormalizedInput) []Factor {
	var factors []Factor

	systolic, diastolic := ParseBloodPressure(in.BloodPressure)
	if systolic >= 140 || diastolic >= 90 {
		factors = append(factors, Factor{Factor: "elevated blood pressure", Weight: 0.8})
	}
	if in.HeartRate > 100 {
		factors = append(factors, Factor{Factor: "elevated heart rate", Weight: 0.7})
	} else if in.HeartRate < 50 {
		factors = append(factors, Factor{Factor: "low heart rate", Weight: 0.7})
	}
	if in.Temperature >= 100.4 {
		factors = append(factors, Factor{Factor: "fever", Weight: 0.75})
	}
	if in.Age >= 65 {
		factors = append(factors, Factor{Factor: "advanced age", Weight: 0.6})
	}

	for _, s := range in.Symptoms {
		w, ok := symptomWeights[s]
		if !ok {
			w = 0.3
		}
		factors = append(factors, Factor{Factor: "symptom: " + s, Weight: w})
	}
	for _, c := range in.PreExistingConditions {
		w, ok := conditionWeights[c]
		if !ok {
			w = 0.3
		}
		factors = append(factors, Factor{Factor: "history: " + c, Weight: w})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Weight > factors[j].Weight
	})
	if len(factors) > 5 {
		factors = factors[:5]
	}
	return factors
}

// RouteDepartment picks a destination from the dominant complaint. First
// matching rule wins; the fallthrough is General Medicine.
func RouteDepartment(in NormalizedInput) string {
	has := func(list []string, tokens ...string) bool {
		for _, t := range tokens {
			if containsToken(list, t) {
				return true
			}
		}
		return false
	}
	switch {
	case has(in.Symptoms, "chest_pain") || has(in.PreExistingConditions, "heart_disease"):
		return "Cardiology"
	case has(in.Symptoms, "shortness_of_breath") || has(in.PreExistingConditions, "asthma"):
		return "Pulmonology"
	case has(in.Symptoms, "abdominal_pain", "nausea"):
		return "Gastroenterology"
	case has(in.Symptoms, "headache", "dizziness"):
		return "Neurology"
	default:
		return "General Medicine"
	}
}

// SafetyGuidance returns the immediate-action list for a risk level.
func SafetyGuidance(level string) []string {
	switch level {
	case "High":
		return []string{
			"Escort patient to the resuscitation area",
			"Obtain full vital signs and continuous monitoring",
			"Notify the attending physician immediately",
		}
	case "Medium":
		return []string{
			"Re-check vital signs within 15 minutes",
			"Keep patient under observation in the waiting area",
		}
	default:
		return []string{
			"Standard intake monitoring",
		}
	}
}
