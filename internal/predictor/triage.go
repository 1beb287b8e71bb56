package predictor

import "strings"

// RiskAnalysis is the scoring half of a triage response.
type RiskAnalysis struct {
	RiskLevel       string   `json:"risk_level"`
	RiskScore       float64  `json:"risk_score"`
	Confidence      float64  `json:"confidence"`
	CriticalFactors []string `json:"critical_factors"`
}

// Recommendation is the routing half of a triage response.
type Recommendation struct {
	Priority          int      `json:"priority"`
	Department        string   `json:"department"`
	EstimatedWaitTime string   `json:"estimated_wait_time"`
	ImmediateActions  []string `json:"immediate_actions"`
}

// TriageResponse is the full prediction payload returned to callers.
type TriageResponse struct {
	Success              bool            `json:"success"`
	RiskAnalysis         RiskAnalysis    `json:"risk_analysis"`
	TriageRecommendation Recommendation  `json:"triage_recommendation"`
	Timestamp            string          `json:"timestamp"`
	NormalizedInput      NormalizedInput `json:"normalized_input"`
}

// ToConfidencePct rescales a model score onto 0..100. Values at or below
// 1 are treated as fractions; everything is clamped into range.
func ToConfidencePct(value float64) float64 {
	if value <= 1 {
		value *= 100
	}
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// Shape converts a model result into the dashboard triage response. The
// risk level is lowercased for display, score and confidence fall back to
// each other when one is degenerate, and priority/wait time follow the
// three-level ladder.
func Shape(result *Result, in NormalizedInput) TriageResponse {
	confidencePct := ToConfidencePct(result.Confidence)
	scorePct := ToConfidencePct(result.RiskScore)
	if scorePct <= 0 {
		scorePct = confidencePct
	}
	if confidencePct <= 0 {
		confidencePct = scorePct
	}

	factors := make([]string, 0, len(result.TopFactors))
	for _, f := range result.TopFactors {
		factors = append(factors, f.Factor)
	}

	priority := 3
	wait := "30-60 mins"
	switch result.RiskLevel {
	case "High":
		priority = 1
		wait = "Immediate"
	case "Medium":
		priority = 2
		wait = "15-30 mins"
	}

	department := result.Department
	if department == "" {
		department = "General Medicine"
	}

	return TriageResponse{
		Success: true,
		RiskAnalysis: RiskAnalysis{
			RiskLevel:       strings.ToLower(result.RiskLevel),
			RiskScore:       scorePct,
			Confidence:      confidencePct / 100,
			CriticalFactors: factors,
		},
		TriageRecommendation: Recommendation{
			Priority:          priority,
			Department:        department,
			EstimatedWaitTime: wait,
			ImmediateActions:  result.SafetyGuidance,
		},
		Timestamp:       result.Timestamp,
		NormalizedInput: in,
	}
}
