package extract

import (
	"reflect"
	"testing"

	"github.com/triagekit/triage/internal/record"
)

func TestDeterministic_FullNote(t *testing.T) {
	text := "Age: 45, Male, BP: 140/90, Temp: 38C, reports chest pain and fever"
	got := Deterministic(text)

	want := record.Partial{
		record.FieldAge:         45,
		record.FieldGender:      "male",
		record.FieldSystolic:    140,
		record.FieldDiastolic:   90,
		record.FieldTemperature: 100.4,
		record.FieldSymptoms:    []string{"fever", "chest-pain"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Deterministic() = %#v, want %#v", got, want)
	}
}

func TestDeterministic_FieldVariants(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
		want  any
	}{
		{"age with dash", "age - 67", record.FieldAge, 67},
		{"age bare", "age 30 on admission", record.FieldAge, 30},
		{"age clamped high", "Age: 200", record.FieldAge, 120},
		{"blood pressure spelled out", "blood pressure 120/80", record.FieldSystolic, 120},
		{"pulse alias", "pulse: 88", record.FieldHeartRate, 88},
		{"heart rate spaced", "Heart Rate - 110", record.FieldHeartRate, 110},
		{"temp fahrenheit explicit", "temp: 101.5F", record.FieldTemperature, 101.5},
		{"temp no unit is fahrenheit", "temperature 99", record.FieldTemperature, 99.0},
		{"temp celsius converted", "Temp: 37.5C", record.FieldTemperature, 99.5},
		{"female detected", "45yo female patient", record.FieldGender, "female"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deterministic(tt.text)
			if !reflect.DeepEqual(got[tt.field], tt.want) {
				t.Fatalf("Deterministic(%q)[%s] = %#v, want %#v", tt.text, tt.field, got[tt.field], tt.want)
			}
		})
	}
}

func TestDeterministic_MaleWinsWhenBothWordsPresent(t *testing.T) {
	got := Deterministic("patient is male, mother is female")
	if got[record.FieldGender] != "male" {
		t.Fatalf("gender = %v, want male", got[record.FieldGender])
	}
}

func TestDeterministic_FemaleAloneIsNotMale(t *testing.T) {
	got := Deterministic("Female, age 52")
	if got[record.FieldGender] != "female" {
		t.Fatalf("gender = %v, want female", got[record.FieldGender])
	}
}

func TestDeterministic_NoMatches(t *testing.T) {
	got := Deterministic("the quick brown fox")
	if len(got) != 0 {
		t.Fatalf("Deterministic() = %#v, want empty", got)
	}
}

func TestDeterministic_Idempotent(t *testing.T) {
	text := "Age: 45, female, hr 102, diabetes and asthma, complains of nausea"
	first := Deterministic(text)
	second := Deterministic(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ across runs: %#v vs %#v", first, second)
	}
}

func TestDeterministic_ConditionsInTableOrder(t *testing.T) {
	got := Deterministic("history of asthma, htn, and diabetes")
	want := []string{"diabetes", "hypertension", "asthma"}
	if !reflect.DeepEqual(got[record.FieldConditions], want) {
		t.Fatalf("conditions = %v, want %v", got[record.FieldConditions], want)
	}
}
