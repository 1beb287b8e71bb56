package record

import (
	"reflect"
	"testing"
)

func TestValidate_ClampsNumericExtremes(t *testing.T) {
	tests := []struct {
		name  string
		field string
		in    any
		want  any
	}{
		{"age negative", FieldAge, -5, 0},
		{"age high", FieldAge, 999, 120},
		{"age in range", FieldAge, 45, 45},
		{"systolic high", FieldSystolic, 500, 300},
		{"systolic low", FieldSystolic, 10, 60},
		{"diastolic high", FieldDiastolic, 400, 200},
		{"heart rate low", FieldHeartRate, 5, 20},
		{"heart rate high", FieldHeartRate, 600, 250},
		{"temperature low", FieldTemperature, 32.0, 85.0},
		{"temperature high", FieldTemperature, 212.0, 110.0},
		{"temperature in range", FieldTemperature, 100.4, 100.4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(Partial{tc.field: tc.in})
			if !reflect.DeepEqual(got[tc.field], tc.want) {
				t.Fatalf("Validate(%v) = %v, want %v", tc.in, got[tc.field], tc.want)
			}
		})
	}
}

func TestValidate_LooseNumericTypes(t *testing.T) {
	// Model JSON decodes numbers as float64 and sometimes quotes them.
	got := Validate(Partial{
		FieldAge:      float64(45),
		FieldSystolic: "140",
	})
	if got[FieldAge] != 45 || got[FieldSystolic] != 140 {
		t.Fatalf("Validate() = %v", got)
	}
}

func TestValidate_GenderEnum(t *testing.T) {
	for _, g := range []string{"male", "Female", "OTHER", " male "} {
		got := Validate(Partial{FieldGender: g})
		if _, ok := got[FieldGender]; !ok {
			t.Errorf("gender %q dropped, want accepted", g)
		}
	}
	got := Validate(Partial{FieldGender: "unknown"})
	if _, ok := got[FieldGender]; ok {
		t.Fatal("invalid gender should be dropped, not defaulted")
	}
}

func TestValidate_SymptomsDedupAndOrder(t *testing.T) {
	got := Validate(Partial{
		FieldSymptoms: []any{"chest pain", "pyrexia", "chest_pain", 42, "not a symptom"},
	})
	want := []string{"chest-pain", "fever"}
	if !reflect.DeepEqual(got[FieldSymptoms], want) {
		t.Fatalf("symptoms = %v, want %v", got[FieldSymptoms], want)
	}
}

func TestValidate_DropsEmptyLists(t *testing.T) {
	got := Validate(Partial{
		FieldSymptoms:   []any{"nothing recognizable"},
		FieldConditions: []string{},
	})
	if len(got) != 0 {
		t.Fatalf("Validate() = %v, want empty", got)
	}
}

func TestValidate_DropsUnconvertible(t *testing.T) {
	got := Validate(Partial{
		FieldAge:         "not a number",
		FieldTemperature: map[string]any{},
	})
	if len(got) != 0 {
		t.Fatalf("Validate() = %v, want empty", got)
	}
}

func TestMerge_SecondaryWins(t *testing.T) {
	det := Partial{FieldAge: 40, FieldGender: "male"}
	sec := Partial{FieldAge: 45}
	got := Merge(det, sec)
	if got[FieldAge] != 45 || got[FieldGender] != "male" {
		t.Fatalf("Merge() = %v", got)
	}
}

func TestMerge_TrivialSecondaryIgnored(t *testing.T) {
	det := Partial{FieldAge: 40, FieldSymptoms: []string{"fever"}}
	sec := Partial{
		FieldAge:      nil,
		FieldGender:   "",
		FieldSymptoms: []any{},
	}
	got := Merge(det, sec)
	if got[FieldAge] != 40 {
		t.Fatalf("nil secondary overwrote age: %v", got)
	}
	if _, ok := got[FieldGender]; ok {
		t.Fatal("empty string secondary should not introduce gender")
	}
	if !reflect.DeepEqual(got[FieldSymptoms], []string{"fever"}) {
		t.Fatalf("empty list secondary overwrote symptoms: %v", got)
	}
}

func TestMerge_AbsentSecondary(t *testing.T) {
	det := Partial{FieldAge: 40}
	got := Merge(det, nil)
	if got[FieldAge] != 40 || len(got) != 1 {
		t.Fatalf("Merge(det, nil) = %v", got)
	}
}
