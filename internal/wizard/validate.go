// ABOUTME: Per-step validation of the draft aggregate
// ABOUTME: Pure functions from draft values to a field->invalid map with a scroll anchor

package wizard

import (
	"fmt"
	"strings"

	"github.com/voxtable/voxtable/internal/draft"
)

// ValidationResult maps field anchors to their invalid flag and remembers
// the first invalid anchor so the UI can scroll to it.
type ValidationResult struct {
	Invalid map[string]bool `json:"invalid"`
	First   string          `json:"first,omitempty"`
}

// OK reports whether no field is invalid.
func (r ValidationResult) OK() bool {
	for _, invalid := range r.Invalid {
		if invalid {
			return false
		}
	}
	return true
}

// ValidationError reports a failed step validation. It blocks the
// transition and carries the per-field result; no remote write happens.
type ValidationError struct {
	Step   Step
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	var fields []string
	for field, invalid := range e.Result.Invalid {
		if invalid {
			fields = append(fields, field)
		}
	}
	return fmt.Sprintf("step %s: invalid fields: %s", e.Step, strings.Join(fields, ", "))
}

// requiredField records one required field check in declaration order.
type requiredField struct {
	anchor string
	value  string
}

// check builds a ValidationResult from required fields: a field is invalid
// when its trimmed value is empty. The first invalid anchor in declaration
// order becomes the scroll target.
func check(fields []requiredField) ValidationResult {
	result := ValidationResult{Invalid: make(map[string]bool, len(fields))}
	for _, f := range fields {
		invalid := strings.TrimSpace(f.value) == ""
		result.Invalid[f.anchor] = invalid
		if invalid && result.First == "" {
			result.First = f.anchor
		}
	}
	return result
}

// Validate applies the step's required-field policy to the draft. The
// policy varies per step: informations requires the establishment name and
// city but not website or address; recapitulatif validates nothing of its
// own.
func Validate(step Step, d draft.Draft) ValidationResult {
	switch step {
	case StepSector:
		return check([]requiredField{
			{anchor: "name", value: d.Name},
			{anchor: "sector", value: d.Sector},
		})
	case StepInformations:
		return check([]requiredField{
			{anchor: "establishment", value: d.Establishment.Name},
			{anchor: "city", value: d.Establishment.City},
		})
	case StepConfiguration:
		return check([]requiredField{
			{anchor: "phone_number", value: d.Telephony.PhoneNumber},
			{anchor: "voice", value: d.Telephony.Voice},
		})
	default:
		return ValidationResult{Invalid: map[string]bool{}}
	}
}
