package predictor

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestNormalize_Defaults(t *testing.T) {
	got := Normalize(map[string]any{})
	want := NormalizedInput{
		Age:                   30,
		Gender:                "Other",
		Symptoms:              []string{},
		BloodPressure:         "120/80",
		HeartRate:             75,
		Temperature:           98.6,
		PreExistingConditions: []string{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize() = %#v, want %#v", got, want)
	}
}

func TestNormalize_TokenizesVocabulary(t *testing.T) {
	got := Normalize(map[string]any{
		"age":      float64(58),
		"gender":   "female",
		"symptoms": []any{"chest pain", "SOB", "ringing ears"},
		"pre_existing_conditions": []any{"high blood pressure"},
		"heart_rate":              "102",
		"temperature":             101.2,
	})

	if got.Age != 58 || got.HeartRate != 102 || got.Temperature != 101.2 {
		t.Fatalf("vitals wrong: %#v", got)
	}
	wantSymptoms := []string{"chest_pain", "shortness_of_breath", "ringing_ears"}
	if !reflect.DeepEqual(got.Symptoms, wantSymptoms) {
		t.Fatalf("symptoms = %v, want %v", got.Symptoms, wantSymptoms)
	}
	if !reflect.DeepEqual(got.PreExistingConditions, []string{"hypertension"}) {
		t.Fatalf("conditions = %v", got.PreExistingConditions)
	}
}

func TestToModelSymptom_FallbackToken(t *testing.T) {
	if got := ToModelSymptom("Back-Pain lower"); got != "back_pain_lower" {
		t.Fatalf("ToModelSymptom() = %q", got)
	}
}

func TestParseBloodPressure(t *testing.T) {
	tests := []struct {
		in       string
		sys, dia int
	}{
		{"140/90", 140, 90},
		{" 120 / 80 ", 120, 80},
		{"garbage", 120, 80},
		{"140", 120, 80},
		{"", 120, 80},
	}
	for _, tt := range tests {
		sys, dia := ParseBloodPressure(tt.in)
		if sys != tt.sys || dia != tt.dia {
			t.Fatalf("ParseBloodPressure(%q) = %d/%d, want %d/%d", tt.in, sys, dia, tt.sys, tt.dia)
		}
	}
}

func TestFeatureVector_Layout(t *testing.T) {
	in := Normalize(map[string]any{
		"age":            60,
		"gender":         "Male",
		"blood_pressure": "150/100",
		"heart_rate":     125,
		"temperature":    110.0,
		"symptoms":       []any{"fever", "abdominal pain"},
		"pre_existing_conditions": []any{"diabetes", "heart disease"},
	})
	f := featureVector(in)

	if f[0] != 0.5 {
		t.Fatalf("age feature = %v", f[0])
	}
	if f[1] != 1 || f[2] != 0 || f[3] != 0 {
		t.Fatalf("gender one-hot = %v %v %v", f[1], f[2], f[3])
	}
	if f[4] != 0.5 || f[5] != 0.5 || f[6] != 0.5 || f[7] != 1 {
		t.Fatalf("vitals = %v %v %v %v", f[4], f[5], f[6], f[7])
	}
	// fever is slot 8, abdominal_pain slot 15.
	if f[8] != 1 || f[15] != 1 || f[9] != 0 {
		t.Fatalf("symptom hot = %v", f)
	}
	// diabetes slot 16, heart_disease slot 19.
	if f[16] != 1 || f[19] != 1 || f[17] != 0 {
		t.Fatalf("condition hot = %v", f)
	}
}

func TestFeatureVector_Clamps(t *testing.T) {
	in := Normalize(map[string]any{"age": 500, "temperature": 40.0})
	f := featureVector(in)
	if f[0] != 1 {
		t.Fatalf("age feature should clamp to 1, got %v", f[0])
	}
	if f[7] != 0 {
		t.Fatalf("temperature feature should clamp to 0, got %v", f[7])
	}
}

func TestRouteDepartment(t *testing.T) {
	tests := []struct {
		name       string
		symptoms   []string
		conditions []string
		want       string
	}{
		{"chest pain", []string{"chest_pain"}, nil, "Cardiology"},
		{"cardiac history beats breathing", []string{"shortness_of_breath"}, []string{"heart_disease"}, "Cardiology"},
		{"breathing", []string{"shortness_of_breath"}, nil, "Pulmonology"},
		{"gi", []string{"nausea"}, nil, "Gastroenterology"},
		{"neuro", []string{"dizziness"}, nil, "Neurology"},
		{"nothing specific", []string{"fatigue"}, nil, "General Medicine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NormalizedInput{Symptoms: tt.symptoms, PreExistingConditions: tt.conditions}
			if got := RouteDepartment(in); got != tt.want {
				t.Fatalf("RouteDepartment() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopFactors_OrderedAndCapped(t *testing.T) {
	in := NormalizedInput{
		Age:           80,
		BloodPressure: "160/100",
		HeartRate:     130,
		Temperature:   102.0,
		Symptoms:      []string{"chest_pain", "fatigue"},
		PreExistingConditions: []string{"heart_disease"},
	}
	factors := TopFactors(in)
	if len(factors) != 5 {
		t.Fatalf("len(factors) = %d, want cap of 5", len(factors))
	}
	if factors[0].Factor != "symptom: chest_pain" {
		t.Fatalf("top factor = %q", factors[0].Factor)
	}
	for i := 1; i < len(factors); i++ {
		if factors[i].Weight > factors[i-1].Weight {
			t.Fatalf("factors not sorted by weight: %v", factors)
		}
	}
}

func TestToConfidencePct(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.85, 85},
		{1, 100},
		{42, 42},
		{250, 100},
		{-3, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ToConfidencePct(tt.in); got != tt.want {
			t.Fatalf("ToConfidencePct(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShape(t *testing.T) {
	in := Normalize(map[string]any{"symptoms": []any{"chest pain"}})
	result := &Result{
		RiskLevel:      "High",
		Confidence:     0.91,
		RiskScore:      0.91,
		Department:     "Cardiology",
		TopFactors:     []Factor{{Factor: "symptom: chest_pain", Weight: 0.9}},
		SafetyGuidance: SafetyGuidance("High"),
		Timestamp:      "2026-01-02T03:04:05Z",
	}
	resp := Shape(result, in)

	if !resp.Success {
		t.Fatal("Success should be true")
	}
	if resp.RiskAnalysis.RiskLevel != "high" {
		t.Fatalf("risk_level = %q", resp.RiskAnalysis.RiskLevel)
	}
	if resp.RiskAnalysis.RiskScore != 91 {
		t.Fatalf("risk_score = %v", resp.RiskAnalysis.RiskScore)
	}
	if resp.RiskAnalysis.Confidence != 0.91 {
		t.Fatalf("confidence = %v", resp.RiskAnalysis.Confidence)
	}
	if resp.RiskAnalysis.CriticalFactors[0] != "symptom: chest_pain" {
		t.Fatalf("critical_factors = %v", resp.RiskAnalysis.CriticalFactors)
	}
	if resp.TriageRecommendation.Priority != 1 || resp.TriageRecommendation.EstimatedWaitTime != "Immediate" {
		t.Fatalf("recommendation = %#v", resp.TriageRecommendation)
	}
	if resp.Timestamp != "2026-01-02T03:04:05Z" {
		t.Fatalf("timestamp = %q", resp.Timestamp)
	}
	if !reflect.DeepEqual(resp.NormalizedInput, in) {
		t.Fatal("normalized input should be echoed unchanged")
	}
}

func TestShape_ScoreFallsBackToConfidence(t *testing.T) {
	resp := Shape(&Result{RiskLevel: "Medium", Confidence: 0.6, RiskScore: 0}, NormalizedInput{})
	if resp.RiskAnalysis.RiskScore != 60 {
		t.Fatalf("risk_score = %v, want confidence fallback 60", resp.RiskAnalysis.RiskScore)
	}
	if resp.TriageRecommendation.Priority != 2 || resp.TriageRecommendation.EstimatedWaitTime != "15-30 mins" {
		t.Fatalf("recommendation = %#v", resp.TriageRecommendation)
	}
}

func TestHandle_MissingModelFailsFast(t *testing.T) {
	h := Open(Config{ModelsDir: t.TempDir()}, nil)
	if h.Ready() {
		t.Fatal("handle should not be ready without a model file")
	}
	if h.Err() == nil {
		t.Fatal("Err() should report the init failure")
	}

	_, err := h.Predict(context.Background(), NormalizedInput{})
	if err == nil || !strings.Contains(err.Error(), h.ModelsDir()) {
		t.Fatalf("Predict error should name the models dir: %v", err)
	}
}
