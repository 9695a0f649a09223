package engine

import "sort"

// Rank totally orders triggers: severity rank descending, impact
// descending, timestamp ascending. Remaining ties keep the evaluator's
// emission order.
func Rank(triggers []Trigger) {
	sort.SliceStable(triggers, func(i, j int) bool {
		a, b := triggers[i], triggers[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Impact != b.Impact {
			return a.Impact > b.Impact
		}
		return a.Timestamp.Before(b.Timestamp)
	})
}
