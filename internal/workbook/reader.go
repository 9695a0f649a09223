package workbook

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"shiftdeck/internal/records"
	"shiftdeck/internal/rules"
)

// Snapshot reads the four record collections. Sheet access is
// sequential (the underlying file is not concurrency-safe); the row
// mapping fans out per collection.
func (w *Workbook) Snapshot(ctx context.Context) (*records.Snapshot, error) {
	scheduleRows, err := w.tableRows(SheetSchedule, TableSchedule)
	if err != nil {
		return nil, err
	}
	hourlyRows, err := w.tableRows(SheetHourly, TableHourly)
	if err != nil {
		return nil, err
	}
	downtimeRows, err := w.tableRows(SheetDowntime, TableDowntime)
	if err != nil {
		return nil, err
	}
	standardsRows, err := w.tableRows(SheetStandards, TableStandards)
	if err != nil {
		return nil, err
	}

	snap := &records.Snapshot{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Schedule = mapScheduleRows(scheduleRows)
		return nil
	})
	g.Go(func() error {
		snap.Hourly = mapHourlyRows(hourlyRows)
		return nil
	})
	g.Go(func() error {
		snap.Downtime = mapDowntimeRows(downtimeRows)
		return nil
	})
	g.Go(func() error {
		snap.Standards = mapStandardRows(standardsRows)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w.logger.Debugw("Snapshot read",
		"schedule_rows", len(snap.Schedule),
		"hourly_rows", len(snap.Hourly),
		"downtime_rows", len(snap.Downtime),
		"standards_rows", len(snap.Standards),
	)
	return snap, nil
}

// RuleTable reads the authored rules. An absent or empty table is not
// an error; rule-source selection falls through to the next source.
func (w *Workbook) RuleTable() ([]rules.Rule, error) {
	rows, err := w.tableRows(SheetRules, TableRules)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table: %w", err)
	}

	table := make([]rules.Rule, 0, len(rows))
	for _, row := range rows {
		table = append(table, rules.Rule{
			ID:               row["RuleID"],
			Enabled:          strings.EqualFold(row["Enabled"], "TRUE"),
			Severity:         rules.Severity(row["Severity"]),
			Scope:            rules.Scope(row["Scope"]),
			Description:      row["Description"],
			Condition:        row["IfLogic"],
			Recommendation:   row["ThenRecommendation"],
			Escalation:       row["ThenEscalation"],
			Thresholds:       row["Thresholds"],
			WindowHours:      toInt(row["WindowHours"]),
			ConsecutiveHours: toInt(row["ConsecutiveHours"]),
			AppliesToLine:    row["AppliesToLine"],
			AppliesToMachine: row["AppliesToMachine"],
			AppliesToSKU:     row["AppliesToSKU"],
			Version:          toInt(row["Version"]),
			LastEditedBy:     row["LastEditedBy"],
			LastEditedAt:     row["LastEditedDT"],
		})
	}
	return table, nil
}

func toInt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

// take pops a named column so the leftovers land in Extra.
func take(row map[string]string, name string) string {
	v := row[name]
	delete(row, name)
	return v
}

func extra(row map[string]string) map[string]string {
	if len(row) == 0 {
		return nil
	}
	return row
}

func mapScheduleRows(rows []map[string]string) []records.ScheduleSlot {
	slots := make([]records.ScheduleSlot, 0, len(rows))
	for _, row := range rows {
		start, _ := records.ParseTime(take(row, "StartDT"))
		end, _ := records.ParseTime(take(row, "EndDT"))
		slots = append(slots, records.ScheduleSlot{
			RowID:        take(row, "RowID"),
			Date:         take(row, "Date"),
			Shift:        take(row, "Shift"),
			Line:         take(row, "Line"),
			Start:        start,
			End:          end,
			Order:        take(row, "Order"),
			SKU:          take(row, "SKU"),
			PlannedCases: take(row, "PlannedCases"),
			Notes:        take(row, "Notes"),
			Extra:        extra(row),
		})
	}
	return slots
}

func mapHourlyRows(rows []map[string]string) []records.HourlySample {
	samples := make([]records.HourlySample, 0, len(rows))
	for _, row := range rows {
		hourEnding, _ := records.ParseTime(take(row, "HourEndingDT"))
		samples = append(samples, records.HourlySample{
			RowID:            take(row, "RowID"),
			Date:             take(row, "Date"),
			Shift:            take(row, "Shift"),
			Line:             take(row, "Line"),
			HourEnding:       hourEnding,
			ActualCases:      take(row, "ActualCases"),
			SKUResolved:      take(row, "SKU_Resolved"),
			StdCPH:           take(row, "Std_CPH"),
			StdCasesThisHour: take(row, "StdCasesThisHour"),
			RateAttain:       take(row, "RateAttain_100"),
			TargetRateAttain: take(row, "TargetRateAttain"),
			TargetAttain:     take(row, "TargetAttain"),
			Extra:            extra(row),
		})
	}
	return samples
}

func mapDowntimeRows(rows []map[string]string) []records.DowntimeEvent {
	events := make([]records.DowntimeEvent, 0, len(rows))
	for _, row := range rows {
		start, _ := records.ParseTime(take(row, "StartDT"))
		end, _ := records.ParseTime(take(row, "EndDT"))
		events = append(events, records.DowntimeEvent{
			RowID:         take(row, "RowID"),
			Date:          take(row, "Date"),
			Shift:         take(row, "Shift"),
			Line:          take(row, "Line"),
			Start:         start,
			End:           end,
			Minutes:       take(row, "Minutes"),
			Machine:       take(row, "Machine"),
			OperatorEmpID: take(row, "OperatorEmpID"),
			Category:      take(row, "Category"),
			Cause:         take(row, "Cause"),
			ActionTaken:   take(row, "ActionTaken"),
			Escalated:     take(row, "EscalatedYN"),
			ResolvedBy:    take(row, "ResolvedBy"),
			Notes:         take(row, "Notes"),
			Extra:         extra(row),
		})
	}
	return events
}

func mapStandardRows(rows []map[string]string) []records.Standard {
	standards := make([]records.Standard, 0, len(rows))
	for _, row := range rows {
		standards = append(standards, records.Standard{
			Line:        take(row, "Line"),
			SKU:         take(row, "SKU"),
			ProductName: take(row, "ProductName"),
			StdCPH:      take(row, "Std_CPH"),
			Extra:       extra(row),
		})
	}
	return standards
}
