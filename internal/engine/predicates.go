package engine

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"shiftdeck/internal/dsl"
	"shiftdeck/internal/records"
)

// Grouping-key arguments are literal column lists; substitution
// remnants like ={Line} left over from workbook templating are
// stripped rather than interpreted.
var templateRemnantRE = regexp.MustCompile(`=\{[^}]*\}`)

func groupColumns(raw string, def []string) []string {
	raw = templateRemnantRE.ReplaceAllString(raw, "")
	var cols []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return def
	}
	return cols
}

func sampleKey(s records.HourlySample, cols []string) hitKey {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = s.Field(c)
	}
	return makeKey(parts...)
}

func eventKey(e records.DowntimeEvent, cols []string) hitKey {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = e.Field(c)
	}
	return makeKey(parts...)
}

// consecBelow flags groups whose metric stayed strictly below the
// threshold for a run of at least `hours` consecutive samples. The
// scan covers the most recent 2×hours samples per group so an
// intermittent recovery does not push the streak out of view.
func consecBelow(hourly []records.HourlySample, call dsl.Call) hitSet {
	metric := call.Str("metric", "TargetAttain")
	threshold := call.Float("threshold", 0.7)
	hours := call.Int("hours", 2)
	cols := groupColumns(call.Str("groupby", "Line"), []string{"Line"})

	grouped := make(map[hitKey][]float64)
	for _, s := range hourly {
		key := sampleKey(s, cols)
		grouped[key] = append(grouped[key], s.Metric(metric))
	}

	hits := make(hitSet)
	for key, values := range grouped {
		window := values
		if len(window) > 2*hours {
			window = window[len(window)-2*hours:]
		}
		streak := 0
		for _, v := range window {
			if v < threshold {
				streak++
			} else {
				streak = 0
			}
			if streak >= hours {
				hits.add(key)
				break
			}
		}
	}
	return hits
}

// rollingEventCounts counts downtime events whose start falls within
// the window ending at now, grouped by the given key columns. Events
// without a parseable start time are excluded.
func rollingEventCounts(events []records.DowntimeEvent, now time.Time, windowHours int, cols []string) map[hitKey]int {
	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)
	counts := make(map[hitKey]int)
	for _, e := range events {
		if e.Start.IsZero() || e.Start.Before(cutoff) {
			continue
		}
		counts[eventKey(e, cols)]++
	}
	return counts
}

func rollingCount(events []records.DowntimeEvent, now time.Time, call dsl.Call) hitSet {
	windowHours := call.Int("window_hours", 2)
	min := call.Int("min", 1)
	cols := groupColumns(call.Str("where", "Line"), []string{"Line"})

	hits := make(hitSet)
	for key, count := range rollingEventCounts(events, now, windowHours, cols) {
		if count >= min {
			hits.add(key)
		}
	}
	return hits
}

// repeatCause is rollingCount with the event's Cause appended to the
// grouping key: the same cause must recur within the window.
func repeatCause(events []records.DowntimeEvent, now time.Time, call dsl.Call) hitSet {
	minRepeats := call.Int("min_repeats", 3)
	windowHours := call.Int("window_hours", 12)
	cols := groupColumns(call.Str("groupby", "Line,Machine,Cause"), []string{"Line", "Machine", "Cause"})
	if len(cols) > 0 {
		cols = cols[:len(cols)-1]
	}
	cols = append(cols, "Cause")

	hits := make(hitSet)
	for key, count := range rollingEventCounts(events, now, windowHours, cols) {
		if count >= minRepeats {
			hits.add(key)
		}
	}
	return hits
}

// missingStandard flags hourly samples whose (line, resolved SKU) pair
// has no entry in the standards index.
func missingStandard(hourly []records.HourlySample, standards map[records.StandardKey]struct{}) hitSet {
	hits := make(hitSet)
	for _, s := range hourly {
		if _, ok := standards[records.StandardKey{Line: s.Line, SKU: s.SKUResolved}]; !ok {
			hits.add(makeKey(s.Line, s.SKUResolved))
		}
	}
	return hits
}

// scheduleOverlap flags lines where a slot starts strictly before the
// previous slot ends. Touching boundaries are not overlaps.
func scheduleOverlap(schedule []records.ScheduleSlot) hitSet {
	byLine := make(map[string][]records.ScheduleSlot)
	for _, slot := range schedule {
		byLine[slot.Line] = append(byLine[slot.Line], slot)
	}

	hits := make(hitSet)
	for line, slots := range byLine {
		sort.SliceStable(slots, func(i, j int) bool {
			return slots[i].Start.Before(slots[j].Start)
		})
		for i := 1; i < len(slots); i++ {
			prev, cur := slots[i-1], slots[i]
			if prev.End.IsZero() || cur.Start.IsZero() {
				continue
			}
			if cur.Start.Before(prev.End) {
				hits.add(makeKey(line))
				break
			}
		}
	}
	return hits
}

// forecastShortfall projects each line two periods ahead from a short
// trailing moving average and flags lines whose projection falls short
// of the planned total by at least pct.
func forecastShortfall(hourly []records.HourlySample, schedule []records.ScheduleSlot, call dsl.Call) hitSet {
	pct := call.Float("pct", 0.1)

	actualsByLine := make(map[string][]float64)
	for _, s := range hourly {
		actualsByLine[s.Line] = append(actualsByLine[s.Line], records.ToFloat(s.ActualCases))
	}

	plannedByLine := make(map[string]float64)
	for _, slot := range schedule {
		plannedByLine[slot.Line] += records.ToFloat(slot.PlannedCases)
	}

	hits := make(hitSet)
	for line, actuals := range actualsByLine {
		planned := plannedByLine[line]
		if planned <= 0 {
			continue
		}

		total := 0.0
		for _, v := range actuals {
			total += v
		}

		tail := actuals
		if len(tail) > 3 {
			tail = tail[len(tail)-3:]
		}
		tailSum := 0.0
		for _, v := range tail {
			tailSum += v
		}
		rolling := tailSum / float64(len(tail))

		forecast := total + 2*rolling
		if (planned-forecast)/planned >= pct {
			hits.add(makeKey(line))
		}
	}
	return hits
}
