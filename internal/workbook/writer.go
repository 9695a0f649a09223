package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"shiftdeck/internal/engine"
	"shiftdeck/internal/records"
	"shiftdeck/internal/report"
)

var promptHeader = []string{
	"RuleID", "Severity", "Trigger", "Evidence",
	"Recommendation", "Scope", "AffectedEntity", "Timestamp",
}

// ReportSink writes the analysis into the workbook's report sheet.
// Rendering replaces the whole sheet; the caller saves the workbook.
type ReportSink struct {
	wb *Workbook
}

func NewReportSink(wb *Workbook) *ReportSink {
	return &ReportSink{wb: wb}
}

func (s *ReportSink) Render(sections []report.Section, triggers []engine.Trigger, lintIssues []string) error {
	f := s.wb.file
	if err := f.DeleteSheet(SheetReport); err != nil {
		return fmt.Errorf("failed to reset report sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetReport); err != nil {
		return fmt.Errorf("failed to create report sheet: %w", err)
	}

	set := func(col, row int, value string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetReport, cell, value)
	}

	row := 1
	if err := set(1, row, "Analysis Report"); err != nil {
		return err
	}
	row += 2

	for _, section := range sections {
		if err := set(1, row, section.Title); err != nil {
			return err
		}
		row++
		for _, line := range section.Lines {
			if err := set(1, row, "- "+line); err != nil {
				return err
			}
			row++
		}
		row++
	}

	if err := set(1, row, "Rules Engine Coaching Prompts"); err != nil {
		return err
	}
	row++
	for col, name := range promptHeader {
		if err := set(col+1, row, name); err != nil {
			return err
		}
	}
	row++
	for _, t := range triggers {
		values := []string{
			t.RuleID, string(t.Severity), t.Description, t.Evidence,
			t.Recommendation, string(t.Scope), t.AffectedEntity, records.FormatTime(t.Timestamp),
		}
		for col, v := range values {
			if err := set(col+1, row, v); err != nil {
				return err
			}
		}
		row++
	}

	row++
	if err := set(1, row, "Rule Lint"); err != nil {
		return err
	}
	row++
	if len(lintIssues) == 0 {
		lintIssues = []string{"No linter issues"}
	}
	for _, issue := range lintIssues {
		if err := set(1, row, issue); err != nil {
			return err
		}
		row++
	}
	return nil
}

// ClearLogs drops the data rows of the three log tables after a
// successful archive, keeping the header rows.
func (w *Workbook) ClearLogs() error {
	logs := []struct {
		sheet string
		table string
	}{
		{SheetSchedule, TableSchedule},
		{SheetHourly, TableHourly},
		{SheetDowntime, TableDowntime},
	}

	for _, l := range logs {
		rows, err := w.file.GetRows(l.sheet)
		if err != nil {
			return fmt.Errorf("failed to read sheet %s: %w", l.sheet, err)
		}
		// Bottom-up so row indices stay valid while deleting.
		for r := len(rows); r >= 2; r-- {
			if err := w.file.RemoveRow(l.sheet, r); err != nil {
				return fmt.Errorf("failed to clear sheet %s: %w", l.sheet, err)
			}
		}
		w.logger.Debugw("Cleared log sheet", "sheet", l.sheet, "table", l.table)
	}
	return nil
}
