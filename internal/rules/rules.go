// Package rules holds the authored rule table: the rule model, its
// validation (lint), the built-in defaults, and the fallback chain for
// choosing the active rule set.
package rules

type Severity string

const (
	SeverityInfo   Severity = "Info"
	SeverityWatch  Severity = "Watch"
	SeverityAction Severity = "Action"
	SeverityUrgent Severity = "Urgent"
)

// Rank orders severities for trigger ranking. Unknown severities rank
// below Info.
func (s Severity) Rank() int {
	switch s {
	case SeverityUrgent:
		return 4
	case SeverityAction:
		return 3
	case SeverityWatch:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

func (s Severity) Valid() bool {
	return s.Rank() > 0
}

type Scope string

const (
	ScopeLine     Scope = "Line"
	ScopeMachine  Scope = "Machine"
	ScopeOperator Scope = "Operator"
	ScopeShift    Scope = "Shift"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeLine, ScopeMachine, ScopeOperator, ScopeShift:
		return true
	}
	return false
}

// Rule is one authored row of the rule table.
type Rule struct {
	ID               string   `json:"id"`
	Enabled          bool     `json:"enabled"`
	Severity         Severity `json:"severity"`
	Scope            Scope    `json:"scope"`
	Description      string   `json:"description"`
	Condition        string   `json:"condition"`
	Recommendation   string   `json:"recommendation"`
	Escalation       string   `json:"escalation"`
	Thresholds       string   `json:"thresholds"`
	WindowHours      int      `json:"window_hours"`
	ConsecutiveHours int      `json:"consecutive_hours"`
	AppliesToLine    string   `json:"applies_to_line"`
	AppliesToMachine string   `json:"applies_to_machine"`
	AppliesToSKU     string   `json:"applies_to_sku"`
	Version          int      `json:"version"`
	LastEditedBy     string   `json:"last_edited_by"`
	LastEditedAt     string   `json:"last_edited_at"`
}

// MissingFields lists the required fields that are empty. Numeric
// fields are always considered present; zero is a legal value there.
func (r Rule) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("RuleID", r.ID)
	check("Severity", string(r.Severity))
	check("Scope", string(r.Scope))
	check("Description", r.Description)
	check("IfLogic", r.Condition)
	check("ThenRecommendation", r.Recommendation)
	check("ThenEscalation", r.Escalation)
	check("Thresholds", r.Thresholds)
	check("AppliesToLine", r.AppliesToLine)
	check("AppliesToMachine", r.AppliesToMachine)
	check("AppliesToSKU", r.AppliesToSKU)
	check("LastEditedBy", r.LastEditedBy)
	check("LastEditedDT", r.LastEditedAt)
	return missing
}
