package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/triagekit/triage/internal/providers"
	"github.com/triagekit/triage/internal/record"
	"github.com/triagekit/triage/internal/vocab"
)

// responseSchema is a shape check, not a value check: it rejects responses
// whose fields have the wrong JSON kind (a string where a list belongs)
// while leaving value coercion and bounding to record.Validate.
var responseSchema = jsonschema.MustCompileString("patient_record.json", `{
	"type": "object",
	"properties": {
		"age": {"type": ["integer", "number", "string", "null"]},
		"gender": {"type": ["string", "null"]},
		"symptoms": {"type": ["array", "null"]},
		"conditions": {"type": ["array", "null"]},
		"systolic": {"type": ["integer", "number", "string", "null"]},
		"diastolic": {"type": ["integer", "number", "string", "null"]},
		"heartRate": {"type": ["integer", "number", "string", "null"]},
		"temperature": {"type": ["number", "integer", "string", "null"]}
	}
}`)

const promptTemplate = `You are a medical data extraction assistant. Extract structured patient data from the clinical note below.

Return ONLY a JSON object. Include a key ONLY when the note states or clearly implies its value; omit everything else. Never invent values.

Keys:
- "age": integer
- "gender": one of "male", "female", "other"
- "symptoms": list drawn ONLY from: %s
- "conditions": list drawn ONLY from: %s
- "systolic": integer (blood pressure top number)
- "diastolic": integer (blood pressure bottom number)
- "heartRate": integer (beats per minute)
- "temperature": number in Fahrenheit (convert from Celsius if needed)

Clinical note:
"""
%s
"""

JSON:`

// BuildPrompt renders the extraction prompt for a clinical note. The
// allowed vocabulary ids are inlined so the model cannot drift into
// free-text labels.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate,
		strings.Join(vocab.Symptoms().IDs(), ", "),
		strings.Join(vocab.Conditions().IDs(), ", "),
		text)
}

// Secondary asks the generator to extract fields the regex pass cannot
// reach. It is strictly best-effort: any failure, from transport to
// unparseable output, degrades to nil so the caller falls back to the
// deterministic result alone.
func Secondary(ctx context.Context, gen providers.Generator, text string, logger *slog.Logger) record.Partial {
	if gen == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	raw, err := gen.Generate(ctx, BuildPrompt(text))
	if err != nil {
		logger.Warn("model extraction unavailable, continuing with pattern results",
			"provider", gen.Name(), "error", err)
		return nil
	}

	parsed, err := parseResponse(raw)
	if err != nil {
		logger.Warn("discarding unusable model response",
			"provider", gen.Name(), "error", err)
		return nil
	}

	validated := record.Validate(parsed)
	if len(validated) == 0 {
		return nil
	}
	return validated
}

// parseResponse decodes the model output leniently. Models wrap JSON in
// prose or code fences often enough that the first-to-last-brace slice is
// taken before decoding.
func parseResponse(raw string) (record.Partial, error) {
	obj := sliceJSONObject(raw)
	if obj == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(obj), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := responseSchema.Validate(map[string]any(decoded)); err != nil {
		return nil, fmt.Errorf("response shape rejected: %w", err)
	}
	return record.Partial(decoded), nil
}

// sliceJSONObject returns the substring from the first '{' to the last
// '}', or "" when no such pair exists.
func sliceJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
