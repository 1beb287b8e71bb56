// Package extract turns free clinical text into a partial patient record.
// It runs two independent extractors, a deterministic regex pass and a
// best-effort model-assisted pass, and reconciles them into one bounded
// record.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/triagekit/triage/internal/record"
	"github.com/triagekit/triage/internal/vocab"
)

// The patterns below are the behavioral contract for deterministic
// extraction: digit-count bounds, optional punctuation, and unit suffixes
// are all deliberate. Matching is over the lowercased whole text and every
// field is independent; a non-match means the field is absent, never an
// error.
var (
	ageRE    = regexp.MustCompile(`\bage\s*[:\-]?\s*(\d{1,3})\b`)
	maleRE   = regexp.MustCompile(`\bmale\b`)
	femaleRE = regexp.MustCompile(`\bfemale\b`)
	bpRE     = regexp.MustCompile(`(?:blood\s*pressure|bp)\s*[:\-]?\s*(\d{2,3})\s*/\s*(\d{2,3})`)
	hrRE     = regexp.MustCompile(`(?:heart\s*rate|pulse)\s*[:\-]?\s*(\d{2,3})`)
	tempRE   = regexp.MustCompile(`(?:temperature|temp)\s*[:\-]?\s*(\d{2,3}(?:\.\d+)?)\s*([fc])?`)
)

// Deterministic scans text for vitals, demographics, and vocabulary terms.
// Only detected fields appear in the result.
func Deterministic(text string) record.Partial {
	lowered := strings.ToLower(text)
	extracted := record.Partial{}

	if m := ageRE.FindStringSubmatch(lowered); m != nil {
		age, _ := strconv.Atoi(m[1])
		if age < 0 {
			age = 0
		}
		if age > 120 {
			age = 120
		}
		extracted[record.FieldAge] = age
	}

	// "female" contains "male" as a suffix but \b keeps the words distinct;
	// when both standalone words appear, male wins. That precedence is
	// inherited behavior, kept as-is.
	if maleRE.MatchString(lowered) {
		extracted[record.FieldGender] = "male"
	} else if femaleRE.MatchString(lowered) {
		extracted[record.FieldGender] = "female"
	}

	if m := bpRE.FindStringSubmatch(lowered); m != nil {
		systolic, _ := strconv.Atoi(m[1])
		diastolic, _ := strconv.Atoi(m[2])
		extracted[record.FieldSystolic] = systolic
		extracted[record.FieldDiastolic] = diastolic
	}

	if m := hrRE.FindStringSubmatch(lowered); m != nil {
		hr, _ := strconv.Atoi(m[1])
		extracted[record.FieldHeartRate] = hr
	}

	if m := tempRE.FindStringSubmatch(lowered); m != nil {
		raw, _ := strconv.ParseFloat(m[1], 64)
		if m[2] == "c" {
			raw = math.Round((raw*9/5+32)*10) / 10
		}
		extracted[record.FieldTemperature] = raw
	}

	if symptoms := vocab.MatchAll(text, vocab.Symptoms()); len(symptoms) > 0 {
		extracted[record.FieldSymptoms] = symptoms
	}
	if conditions := vocab.MatchAll(text, vocab.Conditions()); len(conditions) > 0 {
		extracted[record.FieldConditions] = conditions
	}

	return extracted
}
