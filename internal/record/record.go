// Package record defines the partial patient record produced by the
// extraction stages and the merge/validation step that bounds it.
//
// A Partial is a plain field→value mapping where only detected fields are
// present: absent, null, and zero are three different things, and only
// present non-null values survive a merge.
package record

// Field names recognized in a Partial.
const (
	FieldAge         = "age"
	FieldGender      = "gender"
	FieldSystolic    = "systolic"
	FieldDiastolic   = "diastolic"
	FieldHeartRate   = "heartRate"
	FieldTemperature = "temperature"
	FieldSymptoms    = "symptoms"
	FieldConditions  = "conditions"
)

// Partial is a sparse patient record. Values are whatever the producing
// stage detected; nothing is guaranteed bounded until Validate runs.
type Partial map[string]any

// Merge layers sec over det: every field present in sec with a non-empty,
// non-null value overwrites the deterministic one. Neither input is
// mutated.
func Merge(det, sec Partial) Partial {
	merged := make(Partial, len(det)+len(sec))
	for k, v := range det {
		merged[k] = v
	}
	for k, v := range sec {
		if isTrivial(v) {
			continue
		}
		merged[k] = v
	}
	return merged
}

// isTrivial reports whether a secondary value should be ignored during
// merge: nil, empty string, empty slice, empty map.
func isTrivial(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
