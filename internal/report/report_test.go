package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftdeck/internal/engine"
	"shiftdeck/internal/records"
	"shiftdeck/internal/rules"
)

func TestMissingScheduleForHour(t *testing.T) {
	day := time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	slots := []records.ScheduleSlot{
		{Line: "Line 1", Start: at(6), End: at(14)},
		{Line: "Line 2"}, // times never parsed
	}

	tests := []struct {
		name string
		line string
		hour time.Time
		want bool
	}{
		{name: "inside slot", line: "Line 1", hour: at(10), want: false},
		{name: "at start boundary", line: "Line 1", hour: at(6), want: false},
		{name: "at end boundary", line: "Line 1", hour: at(14), want: false},
		{name: "after slot", line: "Line 1", hour: at(15), want: true},
		{name: "other line", line: "Line 3", hour: at(10), want: true},
		{name: "slot without times never covers", line: "Line 2", hour: at(10), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, missingScheduleForHour(slots, tt.line, tt.hour))
		})
	}
}

func TestBuildSections(t *testing.T) {
	now := time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)
	snap := &records.Snapshot{
		Schedule: []records.ScheduleSlot{
			{Line: "Line 1", Start: now.Add(-6 * time.Hour), End: now.Add(2 * time.Hour)},
		},
		Hourly: []records.HourlySample{
			{Line: "Line 1", SKUResolved: "SKU-001", HourEnding: now.Add(-1 * time.Hour)},
			{Line: "Line 2", SKUResolved: "SKU-404", HourEnding: now.Add(-1 * time.Hour)},
			{Line: "Line 1", SKUResolved: "SKU-001"}, // no hour ending, checked against now
		},
		Downtime: []records.DowntimeEvent{{Line: "Line 1"}},
		Standards: []records.Standard{
			{Line: "Line 1", SKU: "SKU-001"},
		},
	}
	triggers := []engine.Trigger{
		{Severity: rules.SeverityUrgent, Recommendation: "Add the standard", AffectedEntity: "Line 2,SKU-404"},
	}

	sections := BuildSections(snap, triggers, rules.SourceDefaults, now, 0)
	require.Len(t, sections, 5)

	assert.Equal(t, "Data Quality", sections[0].Title)
	assert.Equal(t, []string{
		"Hourly rows: 3",
		"Downtime rows: 1",
		"Rules source: defaults",
	}, sections[0].Lines)

	// Line 2 has no slot at all; the Line 1 rows fall inside its slot.
	assert.Equal(t, []string{"Hourly rows without schedule: 1"}, sections[1].Lines)
	assert.Equal(t, []string{"Rows missing standards: 1"}, sections[2].Lines)
	assert.Equal(t, []string{"Triggered prompts: 1"}, sections[3].Lines)
	assert.Equal(t, []string{"Urgent: Add the standard (Line 2,SKU-404)"}, sections[4].Lines)
}

func TestBuildSectionsTruncatesActions(t *testing.T) {
	now := time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)
	triggers := make([]engine.Trigger, 12)
	for i := range triggers {
		triggers[i] = engine.Trigger{Severity: rules.SeverityWatch, Recommendation: "Review", AffectedEntity: "Line 1"}
	}

	sections := BuildSections(&records.Snapshot{}, triggers, rules.SourceAuthored, now, 0)
	assert.Len(t, sections[4].Lines, DefaultTopPrompts)

	sections = BuildSections(&records.Snapshot{}, triggers, rules.SourceAuthored, now, 3)
	assert.Len(t, sections[4].Lines, 3)
}

func TestTextSinkRender(t *testing.T) {
	now := time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)
	sections := []Section{{Title: "Data Quality", Lines: []string{"Hourly rows: 2"}}}
	triggers := []engine.Trigger{{
		RuleID:         "R2_MISSING_STANDARD",
		Severity:       rules.SeverityUrgent,
		Description:    "No standard for SKU on line",
		Evidence:       "MISSING_STANDARD()",
		Recommendation: "Add the standard",
		Scope:          rules.ScopeLine,
		AffectedEntity: "Line 1,SKU-002",
		Timestamp:      now,
	}}

	var out strings.Builder
	err := NewTextSink(&out).Render(sections, triggers, nil)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Analysis Report")
	assert.Contains(t, text, "Data Quality")
	assert.Contains(t, text, "- Hourly rows: 2")
	assert.Contains(t, text, "[Urgent] R2_MISSING_STANDARD: No standard for SKU on line (Line 1,SKU-002): Add the standard")
	assert.Contains(t, text, "No linter issues")
}

func TestTextSinkRendersLintIssues(t *testing.T) {
	var out strings.Builder
	err := NewTextSink(&out).Render(nil, nil, []string{"Rule R9 (row 4): invalid Severity 'Critical'"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "invalid Severity 'Critical'")
	assert.NotContains(t, out.String(), "No linter issues")
}
