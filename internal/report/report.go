// Package report assembles the analysis summary shown to shift leads:
// a handful of named sections plus the ranked coaching prompt table.
package report

import (
	"fmt"
	"time"

	"shiftdeck/internal/engine"
	"shiftdeck/internal/records"
	"shiftdeck/internal/rules"
)

// DefaultTopPrompts bounds the Recommended Actions section.
const DefaultTopPrompts = 10

type Section struct {
	Title string
	Lines []string
}

// Sink renders a finished analysis somewhere: a workbook sheet, the
// console. Implementations must not reorder the triggers.
type Sink interface {
	Render(sections []Section, triggers []engine.Trigger, lintIssues []string) error
}

// missingScheduleForHour reports whether no slot on the line covers the
// given hour. Slot bounds are inclusive; slots with unparseable times
// never cover anything.
func missingScheduleForHour(slots []records.ScheduleSlot, line string, hour time.Time) bool {
	for _, slot := range slots {
		if slot.Line != line {
			continue
		}
		if slot.Start.IsZero() || slot.End.IsZero() {
			continue
		}
		if !hour.Before(slot.Start) && !hour.After(slot.End) {
			return false
		}
	}
	return true
}

// BuildSections computes the summary sections. Hourly rows without a
// parseable HourEnding are checked against now instead.
func BuildSections(snap *records.Snapshot, triggers []engine.Trigger, source rules.Source, now time.Time, topPrompts int) []Section {
	if topPrompts <= 0 {
		topPrompts = DefaultTopPrompts
	}

	standards := snap.StandardIndex()

	missingSchedule := 0
	missingStandards := 0
	for _, s := range snap.Hourly {
		hour := s.HourEnding
		if hour.IsZero() {
			hour = now
		}
		if missingScheduleForHour(snap.Schedule, s.Line, hour) {
			missingSchedule++
		}
		if _, ok := standards[records.StandardKey{Line: s.Line, SKU: s.SKUResolved}]; !ok {
			missingStandards++
		}
	}

	actions := make([]string, 0, topPrompts)
	for _, t := range triggers {
		if len(actions) == topPrompts {
			break
		}
		actions = append(actions, fmt.Sprintf("%s: %s (%s)", t.Severity, t.Recommendation, t.AffectedEntity))
	}

	return []Section{
		{
			Title: "Data Quality",
			Lines: []string{
				fmt.Sprintf("Hourly rows: %d", len(snap.Hourly)),
				fmt.Sprintf("Downtime rows: %d", len(snap.Downtime)),
				fmt.Sprintf("Rules source: %s", source),
			},
		},
		{
			Title: "Schedule Integrity",
			Lines: []string{fmt.Sprintf("Hourly rows without schedule: %d", missingSchedule)},
		},
		{
			Title: "Standards Coverage",
			Lines: []string{fmt.Sprintf("Rows missing standards: %d", missingStandards)},
		},
		{
			Title: "Operational Risks",
			Lines: []string{fmt.Sprintf("Triggered prompts: %d", len(triggers))},
		},
		{
			Title: "Recommended Actions (ranked)",
			Lines: actions,
		},
	}
}
