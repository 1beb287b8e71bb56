// Package predictor evaluates the triage risk model over a normalized
// patient snapshot and shapes the result into the dashboard triage
// response.
package predictor

import (
	"strconv"
	"strings"

	"github.com/triagekit/triage/internal/vocab"
)

// Defaults applied when a patient_data field is absent or unusable. These
// describe a median adult walk-in so a sparse request still produces a
// defensible baseline prediction.
const (
	DefaultAge           = 30
	DefaultGender        = "Other"
	DefaultBloodPressure = "120/80"
	DefaultHeartRate     = 75
	DefaultTemperature   = 98.6
)

// NormalizedInput is the exact payload handed to the risk model and echoed
// back to the caller. Symptom and condition entries are model-facing
// snake_case tokens.
type NormalizedInput struct {
	Age                   int      `json:"age"`
	Gender                string   `json:"gender"`
	Symptoms              []string `json:"symptoms"`
	BloodPressure         string   `json:"blood_pressure"`
	HeartRate             int      `json:"heart_rate"`
	Temperature           float64  `json:"temperature"`
	PreExistingConditions []string `json:"pre_existing_conditions"`
}

// Normalize fills defaults and converts caller values into the model's
// vocabulary. Unusable values fall back to defaults rather than failing;
// prediction is expected to work on whatever fragment intake produced.
func Normalize(patientData map[string]any) NormalizedInput {
	in := NormalizedInput{
		Age:           DefaultAge,
		Gender:        DefaultGender,
		Symptoms:      []string{},
		BloodPressure: DefaultBloodPressure,
		HeartRate:     DefaultHeartRate,
		Temperature:   DefaultTemperature,

		PreExistingConditions: []string{},
	}

	if v, ok := patientData["age"]; ok {
		if n, ok := asInt(v); ok {
			in.Age = n
		}
	}
	if v, ok := patientData["gender"]; ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			in.Gender = s
		}
	}
	if v, ok := patientData["blood_pressure"]; ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			in.BloodPressure = s
		}
	}
	if v, ok := patientData["heart_rate"]; ok {
		if n, ok := asInt(v); ok {
			in.HeartRate = n
		}
	}
	if v, ok := patientData["temperature"]; ok {
		if f, ok := asFloat(v); ok {
			in.Temperature = f
		}
	}
	for _, raw := range asStrings(patientData["symptoms"]) {
		in.Symptoms = append(in.Symptoms, ToModelSymptom(raw))
	}
	for _, raw := range asStrings(patientData["pre_existing_conditions"]) {
		in.PreExistingConditions = append(in.PreExistingConditions, ToModelCondition(raw))
	}
	return in
}

// ToModelSymptom maps a free-text symptom onto the model's snake_case
// token: vocabulary resolution first, then a mechanical lowercase
// underscore fallback for terms outside the vocabulary.
func ToModelSymptom(raw string) string {
	if id, ok := vocab.Resolve(raw, vocab.Symptoms()); ok {
		return strings.ReplaceAll(id, "-", "_")
	}
	return fallbackToken(raw)
}

// ToModelCondition is ToModelSymptom for pre-existing conditions.
func ToModelCondition(raw string) string {
	if id, ok := vocab.Resolve(raw, vocab.Conditions()); ok {
		return strings.ReplaceAll(id, "-", "_")
	}
	return fallbackToken(raw)
}

func fallbackToken(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.ReplaceAll(token, " ", "_")
	return strings.ReplaceAll(token, "-", "_")
}

// ParseBloodPressure splits a "systolic/diastolic" string. Unparsable
// input yields the default reading so the feature vector stays defined.
func ParseBloodPressure(bp string) (systolic, diastolic int) {
	parts := strings.SplitN(strings.TrimSpace(bp), "/", 2)
	if len(parts) == 2 {
		s, errS := strconv.Atoi(strings.TrimSpace(parts[0]))
		d, errD := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errS == nil && errD == nil {
			return s, d
		}
	}
	return 120, 80
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asStrings(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		out = list
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
