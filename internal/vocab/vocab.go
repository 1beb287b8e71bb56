// Package vocab holds the controlled vocabularies for symptoms and
// pre-existing conditions, plus the normalization helpers that map free
// text onto canonical dashboard identifiers.
package vocab

// Entry pairs a canonical id with the free-text phrases that resolve to it.
// Canonical ids are lowercase dash-separated tokens (e.g. "chest-pain").
type Entry struct {
	ID      string
	Aliases []string
}

// Table is an ordered alias table. Order matters: occurrence scans report
// matches in table order, so downstream output is deterministic.
type Table []Entry

var symptoms = Table{
	{ID: "fever", Aliases: []string{"fever", "pyrexia", "high temperature"}},
	{ID: "chest-pain", Aliases: []string{"chest pain", "chest-pain", "chest_pain"}},
	{ID: "shortness-of-breath", Aliases: []string{
		"shortness of breath",
		"shortness-of-breath",
		"shortness_of_breath",
		"sob",
		"dyspnea",
	}},
	{ID: "fatigue", Aliases: []string{"fatigue", "tiredness", "weakness"}},
	{ID: "headache", Aliases: []string{"headache", "migraine"}},
	{ID: "nausea", Aliases: []string{"nausea", "nauseous", "vomiting"}},
	{ID: "dizziness", Aliases: []string{"dizziness", "lightheadedness", "vertigo"}},
	{ID: "abdominal-pain", Aliases: []string{"abdominal pain", "abd pain", "stomach pain", "abdominal-pain"}},
}

var conditions = Table{
	{ID: "diabetes", Aliases: []string{"diabetes", "dm", "type 2 diabetes", "type 1 diabetes"}},
	{ID: "hypertension", Aliases: []string{"hypertension", "high blood pressure", "htn"}},
	{ID: "asthma", Aliases: []string{"asthma"}},
	{ID: "heart-disease", Aliases: []string{"heart disease", "cad", "coronary artery disease", "heart-disease"}},
}

// Symptoms returns the symptom alias table. The table is shared and must
// not be mutated.
func Symptoms() Table { return symptoms }

// Conditions returns the condition alias table. The table is shared and
// must not be mutated.
func Conditions() Table { return conditions }

// IDs returns the canonical ids in table order.
func (t Table) IDs() []string {
	ids := make([]string, len(t))
	for i, e := range t {
		ids[i] = e.ID
	}
	return ids
}
