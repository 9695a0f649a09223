package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftdeck/internal/archive"
	"shiftdeck/internal/logger"
	"shiftdeck/internal/records"
)

func testSnapshot() *records.Snapshot {
	start := time.Date(2025, 8, 8, 6, 0, 0, 0, time.UTC)
	return &records.Snapshot{
		Schedule: []records.ScheduleSlot{
			{RowID: "S1", Line: "Line 1", Start: start, End: start.Add(8 * time.Hour), PlannedCases: "1000"},
		},
		Hourly: []records.HourlySample{
			{RowID: "H1", Line: "Line 1", ActualCases: "95", SKUResolved: "SKU-001"},
			{RowID: "H2", Line: "Line 1", ActualCases: "90", SKUResolved: "SKU-001"},
			{Line: "Line 1", ActualCases: "85"}, // no RowID, skipped
		},
		Downtime: []records.DowntimeEvent{
			{RowID: "D1", Line: "Line 1", Machine: "M1-1", Cause: "Jam", Start: start.Add(time.Hour)},
		},
	}
}

func countRows(t *testing.T, infra *TestInfra, table string) int {
	t.Helper()
	var count int
	require.NoError(t, infra.DB.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
	return count
}

func TestArchiveSnapshotRoundTrip(t *testing.T) {
	infra := SetupTestInfra(t)
	ctx := context.Background()

	store, err := archive.Open(ctx, infra.Conn, logger.NopLogger())
	require.NoError(t, err)
	defer store.Close()

	result, err := store.ArchiveSnapshot(ctx, "deck.xlsm", testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ScheduleRows)
	assert.Equal(t, 2, result.HourlyRows, "row without RowID is skipped")
	assert.Equal(t, 1, result.DowntimeRows)

	assert.Equal(t, 1, countRows(t, infra, "schedule_log"))
	assert.Equal(t, 2, countRows(t, infra, "hourly_log"))
	assert.Equal(t, 1, countRows(t, infra, "downtime_log"))
	assert.Equal(t, 1, countRows(t, infra, "archive_runs"))

	var payload string
	require.NoError(t, infra.DB.QueryRow(
		"SELECT payload->>'Cause' FROM downtime_log WHERE row_id = 'D1'").Scan(&payload))
	assert.Equal(t, "Jam", payload)
}

func TestArchiveSnapshotIsIdempotent(t *testing.T) {
	infra := SetupTestInfra(t)
	ctx := context.Background()

	store, err := archive.Open(ctx, infra.Conn, logger.NopLogger())
	require.NoError(t, err)
	defer store.Close()

	snap := testSnapshot()
	_, err = store.ArchiveSnapshot(ctx, "deck.xlsm", snap)
	require.NoError(t, err)

	// Re-archiving after an edit updates in place instead of duplicating.
	snap.Hourly[0].ActualCases = "120"
	result, err := store.ArchiveSnapshot(ctx, "deck.xlsm", snap)
	require.NoError(t, err)
	assert.Equal(t, 2, result.HourlyRows)

	assert.Equal(t, 2, countRows(t, infra, "hourly_log"))
	assert.Equal(t, 2, countRows(t, infra, "archive_runs"), "each archive pass records a run")

	var actual string
	require.NoError(t, infra.DB.QueryRow(
		"SELECT payload->>'ActualCases' FROM hourly_log WHERE row_id = 'H1'").Scan(&actual))
	assert.Equal(t, "120", actual)
}

func TestLastRun(t *testing.T) {
	infra := SetupTestInfra(t)
	ctx := context.Background()

	store, err := archive.Open(ctx, infra.Conn, logger.NopLogger())
	require.NoError(t, err)
	defer store.Close()

	result, err := store.ArchiveSnapshot(ctx, "deck.xlsm", testSnapshot())
	require.NoError(t, err)

	last, archivedAt, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, last.RunID)
	assert.Equal(t, 2, last.HourlyRows)
	assert.WithinDuration(t, time.Now(), archivedAt, time.Minute)
}
