package records

import (
	"strconv"
	"strings"
	"time"
)

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses a cell value into a timestamp. Blank or unparseable
// values report ok=false and are excluded from windowed aggregations.
func ParseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// ToFloat coerces a cell value to a number. Blank cells, formula
// remnants (leading "="), and anything else non-numeric become 0.
func ToFloat(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "=") {
		return 0.0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0.0
	}
	return f
}
