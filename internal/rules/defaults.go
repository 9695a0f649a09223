package rules

import "time"

// Defaults returns the two built-in rules shipped as the baseline rule
// set, used when neither an authored table nor an exported rule
// document is available.
func Defaults() []Rule {
	edited := time.Now().Format("2006-01-02T15:04")
	return []Rule{
		{
			ID:               "R1_UNDERPERFORM_STOPS",
			Enabled:          true,
			Severity:         SeverityAction,
			Scope:            ScopeLine,
			Description:      "Sustained underperformance with frequent stops",
			Condition:        `CONSEC_BELOW(metric="TargetAttain", threshold=0.70, hours=2, groupby="Line") AND ROLLING_COUNT(table="Downtime", window_hours=2, where="Line={Line}", min=4)`,
			Recommendation:   "Run rapid loss review and assign immediate support to top downtime cause.",
			Escalation:       "Notify area lead if persists for 2 more hours.",
			Thresholds:       `{"threshold":0.70,"min_stops":4}`,
			WindowHours:      2,
			ConsecutiveHours: 2,
			AppliesToLine:    "*",
			AppliesToMachine: "*",
			AppliesToSKU:     "*",
			Version:          1,
			LastEditedBy:     "system",
			LastEditedAt:     edited,
		},
		{
			ID:               "R2_MISSING_STANDARD",
			Enabled:          true,
			Severity:         SeverityUrgent,
			Scope:            ScopeLine,
			Description:      "Standards missing for active run",
			Condition:        `MISSING_STANDARD(groupby="Line,SKU_Resolved")`,
			Recommendation:   "Add standard immediately or switch to approved alternate SKU standard.",
			Escalation:       "Escalate to process engineer and planner.",
			Thresholds:       "{}",
			WindowHours:      4,
			ConsecutiveHours: 1,
			AppliesToLine:    "*",
			AppliesToMachine: "*",
			AppliesToSKU:     "*",
			Version:          1,
			LastEditedBy:     "system",
			LastEditedAt:     edited,
		},
	}
}
