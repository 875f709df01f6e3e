package rules

import "encoding/json"

// Envelope is the machine-readable rendering of a lint run: every
// violation plus a summary, well-formed even when empty.
type Envelope struct {
	Violations []EnvelopeViolation `json:"violations"`
	Summary    Summary             `json:"summary"`
}

// EnvelopeViolation is the JSON shape of a single Violation.
type EnvelopeViolation struct {
	RuleID   string        `json:"ruleId"`
	Severity string        `json:"severity"`
	Message  string        `json:"message"`
	File     string        `json:"file"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Fixes    []EnvelopeFix `json:"fixes,omitempty"`
}

// EnvelopeFix is the JSON shape of a FixStrategy.
type EnvelopeFix struct {
	Description    string `json:"description"`
	AutoApplicable bool   `json:"autoApplicable"`
}

// Summary aggregates violation counts by rule and severity.
type Summary struct {
	Total      int            `json:"total"`
	ByRule     map[string]int `json:"byRule"`
	BySeverity map[string]int `json:"bySeverity"`
}

// BuildEnvelope converts a flat violation list into the wire envelope.
func BuildEnvelope(violations []Violation) Envelope {
	env := Envelope{
		Violations: make([]EnvelopeViolation, 0, len(violations)),
		Summary: Summary{
			ByRule:     map[string]int{},
			BySeverity: map[string]int{},
		},
	}
	for _, v := range violations {
		ev := EnvelopeViolation{
			RuleID:   v.RuleID,
			Severity: v.Severity,
			Message:  v.Message,
			File:     v.File,
			Line:     v.Line,
			Column:   v.Column,
		}
		for _, f := range v.Fixes {
			ev.Fixes = append(ev.Fixes, EnvelopeFix{Description: f.Description, AutoApplicable: f.AutoApplicable})
		}
		env.Violations = append(env.Violations, ev)
		env.Summary.Total++
		env.Summary.ByRule[v.RuleID]++
		env.Summary.BySeverity[v.Severity]++
	}
	return env
}

// MarshalJSON renders the envelope, always producing valid JSON even for
// a zero-violation run.
func (e Envelope) MarshalJSON() ([]byte, error) {
	type alias Envelope
	return json.Marshal(alias(e))
}
