// Package archive persists workbook log rows into PostgreSQL so the
// workbook can be cleared between shifts without losing history. Rows
// are deduplicated by RowID: re-archiving the same workbook is
// idempotent.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"shiftdeck/internal/logger"
	"shiftdeck/internal/records"
	"shiftdeck/pkg/metrics"
	"shiftdeck/pkg/retry"
)

type Store struct {
	db     *sql.DB
	logger logger.Logger
}

// Open connects to the archive database and verifies the connection
// with the default retry policy.
func Open(ctx context.Context, dsn string, log logger.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := retry.Retry(ctx, retry.DefaultPolicy(), func() error {
		return db.PingContext(ctx)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	return &Store{db: db, logger: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Result reports how many rows each log contributed to an archive run.
type Result struct {
	RunID        uuid.UUID
	ScheduleRows int
	HourlyRows   int
	DowntimeRows int
}

// ArchiveSnapshot upserts the three log collections and records the
// run. Rows without a RowID cannot be deduplicated and are skipped.
func (s *Store) ArchiveSnapshot(ctx context.Context, workbook string, snap *records.Snapshot) (Result, error) {
	result := Result{RunID: uuid.New()}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	result.ScheduleRows, err = upsertRows(ctx, tx, "schedule_log", scheduleRows(snap.Schedule))
	if err != nil {
		return result, err
	}
	result.HourlyRows, err = upsertRows(ctx, tx, "hourly_log", hourlyRows(snap.Hourly))
	if err != nil {
		return result, err
	}
	result.DowntimeRows, err = upsertRows(ctx, tx, "downtime_log", downtimeRows(snap.Downtime))
	if err != nil {
		return result, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO archive_runs (id, workbook, schedule_rows, hourly_rows, downtime_rows, archived_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, result.RunID, workbook, result.ScheduleRows, result.HourlyRows, result.DowntimeRows)
	if err != nil {
		return result, fmt.Errorf("failed to record archive run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit archive transaction: %w", err)
	}

	metrics.ArchivedRowsTotal.WithLabelValues("schedule_log").Add(float64(result.ScheduleRows))
	metrics.ArchivedRowsTotal.WithLabelValues("hourly_log").Add(float64(result.HourlyRows))
	metrics.ArchivedRowsTotal.WithLabelValues("downtime_log").Add(float64(result.DowntimeRows))

	s.logger.InfowCtx(ctx, "Snapshot archived",
		"run_id", result.RunID.String(),
		"schedule_rows", result.ScheduleRows,
		"hourly_rows", result.HourlyRows,
		"downtime_rows", result.DowntimeRows,
	)
	return result, nil
}

type archiveRow struct {
	rowID   string
	payload interface{}
}

func scheduleRows(slots []records.ScheduleSlot) []archiveRow {
	rows := make([]archiveRow, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, archiveRow{rowID: slot.RowID, payload: slot})
	}
	return rows
}

func hourlyRows(samples []records.HourlySample) []archiveRow {
	rows := make([]archiveRow, 0, len(samples))
	for _, sample := range samples {
		rows = append(rows, archiveRow{rowID: sample.RowID, payload: sample})
	}
	return rows
}

func downtimeRows(events []records.DowntimeEvent) []archiveRow {
	rows := make([]archiveRow, 0, len(events))
	for _, event := range events {
		rows = append(rows, archiveRow{rowID: event.RowID, payload: event})
	}
	return rows
}

func upsertRows(ctx context.Context, tx *sql.Tx, table string, rows []archiveRow) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (row_id, payload, archived_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (row_id) DO UPDATE
		SET payload = EXCLUDED.payload, archived_at = EXCLUDED.archived_at
	`, table)

	count := 0
	for _, row := range rows {
		if row.rowID == "" {
			continue
		}
		payload, err := json.Marshal(row.payload)
		if err != nil {
			return count, fmt.Errorf("failed to encode row %s for %s: %w", row.rowID, table, err)
		}
		if _, err := tx.ExecContext(ctx, query, row.rowID, payload); err != nil {
			return count, fmt.Errorf("failed to upsert row %s into %s: %w", row.rowID, table, err)
		}
		count++
	}
	return count, nil
}

// LastRun returns the most recent archive run, or sql.ErrNoRows when
// nothing has been archived yet.
func (s *Store) LastRun(ctx context.Context) (Result, time.Time, error) {
	var result Result
	var archivedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT id, schedule_rows, hourly_rows, downtime_rows, archived_at
		FROM archive_runs
		ORDER BY archived_at DESC
		LIMIT 1
	`).Scan(&result.RunID, &result.ScheduleRows, &result.HourlyRows, &result.DowntimeRows, &archivedAt)
	if err != nil {
		return result, archivedAt, err
	}
	return result, archivedAt, nil
}
