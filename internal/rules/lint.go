package rules

import (
	"fmt"

	"shiftdeck/internal/dsl"
)

// Lint statically validates the full rule table, disabled rows
// included, and returns the issues as a value. Issues are advisory:
// linting never blocks evaluation.
func Lint(table []Rule) []string {
	var issues []string

	seen := make(map[string]struct{}, len(table))
	duplicate := false
	for _, r := range table {
		if _, ok := seen[r.ID]; ok {
			duplicate = true
		}
		seen[r.ID] = struct{}{}
	}
	if duplicate {
		issues = append(issues, "Duplicate RuleID values detected")
	}

	for i, r := range table {
		// Row numbering matches the authoring sheet: header is row 1.
		row := i + 2

		if missing := r.MissingFields(); len(missing) > 0 && r.Enabled {
			issues = append(issues, fmt.Sprintf("Row %d: missing required fields %v", row, missing))
		}
		if !r.Severity.Valid() {
			issues = append(issues, fmt.Sprintf("Row %d: invalid Severity %q", row, string(r.Severity)))
		}
		if !r.Scope.Valid() {
			issues = append(issues, fmt.Sprintf("Row %d: invalid Scope %q", row, string(r.Scope)))
		}
		if _, err := dsl.Parse(r.Condition); err != nil {
			issues = append(issues, fmt.Sprintf("Row %d: DSL parse error: %v", row, err))
		}
	}

	return issues
}
