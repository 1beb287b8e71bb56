package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/triagekit/triage/internal/vocab"
)

// Numeric bounds for validated fields. Values outside a range are clamped,
// never rejected; only unconvertible values drop the field.
const (
	AgeMin, AgeMax                 = 0, 120
	SystolicMin, SystolicMax       = 60, 300
	DiastolicMin, DiastolicMax     = 30, 200
	HeartRateMin, HeartRateMax     = 20, 250
	TemperatureMin, TemperatureMax = 85.0, 110.0
)

// Genders is the accepted gender enum.
var Genders = []string{"male", "female", "other"}

// Validate bounds every present field of a partial record and drops any
// field that fails its type or domain check. The result is safe to hand
// to callers as-is: every value is within its documented range and every
// symptom/condition id is vocabulary-valid.
func Validate(p Partial) Partial {
	validated := Partial{}

	if v, ok := p[FieldAge]; ok {
		if n, ok := toInt(v); ok {
			validated[FieldAge] = clampInt(n, AgeMin, AgeMax)
		}
	}

	if v, ok := p[FieldGender]; ok {
		g := strings.ToLower(strings.TrimSpace(toString(v)))
		for _, allowed := range Genders {
			if g == allowed {
				validated[FieldGender] = g
				break
			}
		}
	}

	if ids := normalizeIDs(p[FieldSymptoms], vocab.Symptoms()); len(ids) > 0 {
		validated[FieldSymptoms] = ids
	}
	if ids := normalizeIDs(p[FieldConditions], vocab.Conditions()); len(ids) > 0 {
		validated[FieldConditions] = ids
	}

	if v, ok := p[FieldSystolic]; ok {
		if n, ok := toInt(v); ok {
			validated[FieldSystolic] = clampInt(n, SystolicMin, SystolicMax)
		}
	}
	if v, ok := p[FieldDiastolic]; ok {
		if n, ok := toInt(v); ok {
			validated[FieldDiastolic] = clampInt(n, DiastolicMin, DiastolicMax)
		}
	}
	if v, ok := p[FieldHeartRate]; ok {
		if n, ok := toInt(v); ok {
			validated[FieldHeartRate] = clampInt(n, HeartRateMin, HeartRateMax)
		}
	}
	if v, ok := p[FieldTemperature]; ok {
		if f, ok := toFloat(v); ok {
			validated[FieldTemperature] = clampFloat(f, TemperatureMin, TemperatureMax)
		}
	}

	return validated
}

// normalizeIDs resolves each raw entry through the vocabulary table and
// dedups while preserving first-seen order. Non-string entries are
// skipped; unresolvable entries are dropped.
func normalizeIDs(v any, t vocab.Table) []string {
	var raws []string
	switch list := v.(type) {
	case []string:
		raws = list
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				raws = append(raws, s)
			}
		}
	default:
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, raw := range raws {
		id, ok := vocab.Resolve(raw, t)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampFloat(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// toInt converts the loose value shapes that show up in model JSON and
// caller mappings: ints, floats, numeric strings.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
