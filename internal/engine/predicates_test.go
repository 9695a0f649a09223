package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftdeck/internal/dsl"
	"shiftdeck/internal/records"
)

func mustCall(t *testing.T, condition string) dsl.Call {
	t.Helper()
	calls, err := dsl.Parse(condition)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	return calls[0]
}

func attainSamples(line string, values ...float64) []records.HourlySample {
	samples := make([]records.HourlySample, len(values))
	for i, v := range values {
		samples[i] = records.HourlySample{
			Line:         line,
			TargetAttain: fmt.Sprintf("%.2f", v),
		}
	}
	return samples
}

func TestGroupColumns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "plain column", raw: "Line", want: []string{"Line"}},
		{name: "template remnant stripped", raw: "Line={Line}", want: []string{"Line"}},
		{name: "comma list", raw: "Line,Machine", want: []string{"Line", "Machine"}},
		{name: "empty falls back to default", raw: "", want: []string{"Line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, groupColumns(tt.raw, []string{"Line"}))
		})
	}
}

func TestConsecBelow(t *testing.T) {
	samples := attainSamples("Line 1", 0.9, 0.6, 0.6, 0.9)

	hits := consecBelow(samples, mustCall(t, `CONSEC_BELOW(metric="TargetAttain", threshold=0.7, hours=2, groupby="Line")`))
	_, ok := hits[makeKey("Line 1")]
	assert.True(t, ok, "length-2 run below threshold should hit")

	hits = consecBelow(samples, mustCall(t, `CONSEC_BELOW(metric="TargetAttain", threshold=0.7, hours=3, groupby="Line")`))
	assert.Empty(t, hits, "run of 2 must not satisfy hours=3")
}

func TestConsecBelowLookbackWindow(t *testing.T) {
	// The streak sits outside the last 2×hours samples.
	samples := attainSamples("Line 1", 0.5, 0.5, 0.9, 0.9, 0.9, 0.9)

	hits := consecBelow(samples, mustCall(t, `CONSEC_BELOW(metric="TargetAttain", threshold=0.7, hours=2, groupby="Line")`))
	assert.Empty(t, hits)
}

func TestConsecBelowCoercesDirtyCells(t *testing.T) {
	samples := []records.HourlySample{
		{Line: "Line 1", TargetAttain: "=B2/C2"},
		{Line: "Line 1", TargetAttain: "n/a"},
	}

	hits := consecBelow(samples, mustCall(t, `CONSEC_BELOW(metric="TargetAttain", threshold=0.7, hours=2, groupby="Line")`))
	_, ok := hits[makeKey("Line 1")]
	assert.True(t, ok, "dirty cells coerce to 0.0, which is below threshold")
}

func TestConsecBelowGroupsIndependently(t *testing.T) {
	samples := append(
		attainSamples("Line 1", 0.6, 0.6),
		attainSamples("Line 2", 0.9, 0.9)...,
	)

	hits := consecBelow(samples, mustCall(t, `CONSEC_BELOW(metric="TargetAttain", threshold=0.7, hours=2, groupby="Line")`))
	require.Len(t, hits, 1)
	_, ok := hits[makeKey("Line 1")]
	assert.True(t, ok)
}

func TestRollingCount(t *testing.T) {
	now := time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)
	events := []records.DowntimeEvent{
		{Line: "Line 1", Start: now.Add(-30 * time.Minute)},
		{Line: "Line 1", Start: now.Add(-90 * time.Minute)},
		{Line: "Line 1", Start: now.Add(-5 * time.Hour)}, // outside window
		{Line: "Line 2", Start: now.Add(-10 * time.Minute)},
		{Line: "Line 3"}, // no timestamp, excluded
	}

	hits := rollingCount(events, now, mustCall(t, `ROLLING_COUNT(window_hours=2, where="Line={Line}", min=2)`))
	require.Len(t, hits, 1)
	_, ok := hits[makeKey("Line 1")]
	assert.True(t, ok)
}

func TestRepeatCause(t *testing.T) {
	now := time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)
	events := []records.DowntimeEvent{
		{Line: "Line 1", Machine: "M1-1", Cause: "Jam", Start: now.Add(-1 * time.Hour)},
		{Line: "Line 1", Machine: "M1-1", Cause: "Jam", Start: now.Add(-3 * time.Hour)},
		{Line: "Line 1", Machine: "M1-1", Cause: "Jam", Start: now.Add(-6 * time.Hour)},
		{Line: "Line 1", Machine: "M1-1", Cause: "Starved", Start: now.Add(-2 * time.Hour)},
		{Line: "Line 2", Machine: "M2-1", Cause: "Jam", Start: now.Add(-1 * time.Hour)},
	}

	hits := repeatCause(events, now, mustCall(t, `REPEAT_CAUSE(groupby="Line,Machine,Cause", min_repeats=3, window_hours=12)`))
	require.Len(t, hits, 1)
	_, ok := hits[makeKey("Line 1", "M1-1", "Jam")]
	assert.True(t, ok)
}

func TestMissingStandard(t *testing.T) {
	snap := &records.Snapshot{
		Hourly: []records.HourlySample{
			{Line: "Line 1", SKUResolved: "SKU-002"},
			{Line: "Line 1", SKUResolved: "SKU-001"},
		},
		Standards: []records.Standard{
			{Line: "Line 1", SKU: "SKU-001"},
		},
	}

	hits := missingStandard(snap.Hourly, snap.StandardIndex())
	require.Len(t, hits, 1)
	_, ok := hits[makeKey("Line 1", "SKU-002")]
	assert.True(t, ok)
}

func TestScheduleOverlap(t *testing.T) {
	day := time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	overlapping := []records.ScheduleSlot{
		{Line: "Line 1", Start: at(6), End: at(10)},
		{Line: "Line 1", Start: at(9), End: at(13)},
	}
	hits := scheduleOverlap(overlapping)
	require.Len(t, hits, 1)
	_, ok := hits[makeKey("Line 1")]
	assert.True(t, ok)

	touching := []records.ScheduleSlot{
		{Line: "Line 1", Start: at(6), End: at(10)},
		{Line: "Line 1", Start: at(10), End: at(14)},
	}
	assert.Empty(t, scheduleOverlap(touching), "back-to-back slots are not an overlap")
}

func TestScheduleOverlapIgnoresMissingTimes(t *testing.T) {
	day := time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC)
	slots := []records.ScheduleSlot{
		{Line: "Line 1", Start: day.Add(6 * time.Hour), End: day.Add(10 * time.Hour)},
		{Line: "Line 1"}, // unscheduled times
	}
	assert.Empty(t, scheduleOverlap(slots))
}

func TestForecastShortfall(t *testing.T) {
	hourly := []records.HourlySample{
		{Line: "Line 1", ActualCases: "100"},
		{Line: "Line 1", ActualCases: "100"},
		{Line: "Line 1", ActualCases: "100"},
		{Line: "Line 2", ActualCases: "200"},
		{Line: "Line 2", ActualCases: "200"},
		{Line: "Line 3", ActualCases: "50"},
	}
	schedule := []records.ScheduleSlot{
		{Line: "Line 1", PlannedCases: "1000"},
		{Line: "Line 2", PlannedCases: "500"},
		// Line 3 has no plan: never evaluated.
	}

	hits := forecastShortfall(hourly, schedule, mustCall(t, `FORECAST_SHORTFALL(pct=0.1)`))

	// Line 1 forecast: 300 + 2*100 = 500 against 1000 planned -> 50% short.
	_, ok := hits[makeKey("Line 1")]
	assert.True(t, ok)
	// Line 2 forecast: 400 + 2*200 = 800 against 500 planned -> ahead.
	_, ok = hits[makeKey("Line 2")]
	assert.False(t, ok)
	_, ok = hits[makeKey("Line 3")]
	assert.False(t, ok)
}
