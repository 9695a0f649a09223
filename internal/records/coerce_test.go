package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "date with minutes",
			value:  "2025-08-08 06:30",
			want:   time.Date(2025, 8, 8, 6, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "iso with seconds",
			value:  "2025-08-08T06:30:15",
			want:   time.Date(2025, 8, 8, 6, 30, 15, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "date only",
			value:  "2025-08-08",
			want:   time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "blank",
			value:  "",
			wantOK: false,
		},
		{
			name:   "garbage",
			value:  "next tuesday",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.value)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "plain number", value: "0.70", want: 0.70},
		{name: "integer", value: "120", want: 120},
		{name: "padded", value: "  3.5 ", want: 3.5},
		{name: "blank", value: "", want: 0},
		{name: "formula remnant", value: "=B2/C2", want: 0},
		{name: "text", value: "n/a", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToFloat(tt.value))
		})
	}
}

func TestFieldAccessors(t *testing.T) {
	sample := HourlySample{
		Line:         "Line 1",
		SKUResolved:  "SKU-001",
		TargetAttain: "0.65",
		Extra:        map[string]string{"Supervisor": "E101"},
	}

	assert.Equal(t, "Line 1", sample.Field("Line"))
	assert.Equal(t, "SKU-001", sample.Field("SKU_Resolved"))
	assert.Equal(t, 0.65, sample.Metric("TargetAttain"))
	assert.Equal(t, "E101", sample.Field("Supervisor"))
	assert.Equal(t, "", sample.Field("NoSuchColumn"))

	event := DowntimeEvent{
		Line:    "Line 2",
		Machine: "M2-1",
		Cause:   "Jam",
		Start:   time.Date(2025, 8, 8, 7, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "Jam", event.Field("Cause"))
	assert.Equal(t, "2025-08-08 07:00", event.Field("StartDT"))
}

func TestStandardIndex(t *testing.T) {
	snap := &Snapshot{
		Standards: []Standard{
			{Line: "Line 1", SKU: "SKU-001"},
			{Line: "Line 2", SKU: "SKU-002"},
		},
	}

	index := snap.StandardIndex()
	_, ok := index[StandardKey{Line: "Line 1", SKU: "SKU-001"}]
	assert.True(t, ok)
	_, ok = index[StandardKey{Line: "Line 1", SKU: "SKU-002"}]
	assert.False(t, ok)
}
