package extract

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/triagekit/triage/internal/providers"
	"github.com/triagekit/triage/internal/record"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Age: 45, chest pain")
	for _, want := range []string{
		"Age: 45, chest pain",
		"fever, chest-pain, shortness-of-breath",
		"diabetes, hypertension, asthma, heart-disease",
		"omit everything else",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSecondary_ParsesAndValidates(t *testing.T) {
	gen := providers.NewMockGenerator(`{"age": "62", "gender": "Female", "symptoms": ["migraine", "SOB"], "heartRate": 400}`)
	got := Secondary(context.Background(), gen, "some note", nil)

	want := record.Partial{
		record.FieldAge:       62,
		record.FieldGender:    "female",
		record.FieldSymptoms:  []string{"headache", "shortness-of-breath"},
		record.FieldHeartRate: 250,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Secondary() = %#v, want %#v", got, want)
	}
}

func TestSecondary_JSONInsideProse(t *testing.T) {
	gen := providers.NewMockGenerator("Here is the extraction:\n```json\n{\"age\": 30}\n```\nDone.")
	got := Secondary(context.Background(), gen, "note", nil)
	if got[record.FieldAge] != 30 {
		t.Fatalf("Secondary() = %#v, want age 30", got)
	}
}

func TestSecondary_DegradesToNil(t *testing.T) {
	tests := []struct {
		name string
		gen  *providers.MockGenerator
	}{
		{"generator error", &providers.MockGenerator{ShouldFail: true, Err: errors.New("connection refused")}},
		{"not JSON at all", providers.NewMockGenerator("I could not find any patient data.")},
		{"broken JSON", providers.NewMockGenerator(`{"age": 45`)},
		{"wrong shapes", providers.NewMockGenerator(`{"symptoms": "fever", "age": {"value": 45}}`)},
		{"nothing validates", providers.NewMockGenerator(`{"gender": "unknown", "symptoms": ["rash"]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Secondary(context.Background(), tt.gen, "note", nil); got != nil {
				t.Fatalf("Secondary() = %#v, want nil", got)
			}
		})
	}
}

func TestSecondary_NilGenerator(t *testing.T) {
	if got := Secondary(context.Background(), nil, "note", nil); got != nil {
		t.Fatalf("Secondary() = %#v, want nil", got)
	}
}

func TestPipeline_SecondaryFillsGaps(t *testing.T) {
	gen := providers.NewMockGenerator(`{"age": 50, "conditions": ["hypertension"]}`)
	p := NewPipeline(gen, nil)

	got, err := p.Extract(context.Background(), "Male patient with fever")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := record.Partial{
		record.FieldAge:        50,
		record.FieldGender:     "male",
		record.FieldSymptoms:   []string{"fever"},
		record.FieldConditions: []string{"hypertension"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %#v, want %#v", got, want)
	}
}

func TestPipeline_SecondaryWinsOnConflict(t *testing.T) {
	gen := providers.NewMockGenerator(`{"age": 47}`)
	p := NewPipeline(gen, nil)

	got, err := p.Extract(context.Background(), "Age: 45")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got[record.FieldAge] != 47 {
		t.Fatalf("age = %v, want model value 47", got[record.FieldAge])
	}
}

func TestPipeline_SurvivesGeneratorFailure(t *testing.T) {
	gen := &providers.MockGenerator{ShouldFail: true}
	p := NewPipeline(gen, nil)

	got, err := p.Extract(context.Background(), "Age: 45, BP 130/85")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := record.Partial{
		record.FieldAge:       45,
		record.FieldSystolic:  130,
		record.FieldDiastolic: 85,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %#v, want %#v", got, want)
	}
}

func TestPipeline_NoFields(t *testing.T) {
	p := NewPipeline(nil, nil)
	_, err := p.Extract(context.Background(), "nothing clinical here")
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("err = %v, want ErrNoFields", err)
	}
}
