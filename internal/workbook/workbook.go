// Package workbook reads the operational record collections and the
// authored rule table from named tables in an .xlsx/.xlsm workbook,
// and writes the analysis report back into it.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"shiftdeck/internal/logger"
)

const (
	SheetSchedule  = "Schedule_Entry"
	SheetHourly    = "Hourly_Log"
	SheetDowntime  = "Downtime_Log"
	SheetStandards = "Parameters"
	SheetRules     = "Rules_Authoring"
	SheetReport    = "Analysis_Report"

	TableSchedule  = "tblSchedule"
	TableHourly    = "tblHourly"
	TableDowntime  = "tblDowntime"
	TableStandards = "tblStandards"
	TableRules     = "tblRules"
)

// Workbook wraps one open workbook file. Not safe for concurrent use;
// one evaluation pass owns it end to end.
type Workbook struct {
	file   *excelize.File
	path   string
	logger logger.Logger
}

func Open(path string, log logger.Logger) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{file: f, path: path, logger: log}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// Save writes the workbook back to the path it was opened from,
// preserving any macros the file carries.
func (w *Workbook) Save() error {
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

func (w *Workbook) Path() string {
	return w.path
}

// tableRows reads a named table from a sheet as one map per non-empty
// data row, keyed by the header row. Sheets exported without table
// metadata fall back to treating the whole sheet as the table.
func (w *Workbook) tableRows(sheet, table string) ([]map[string]string, error) {
	firstCol, firstRow, lastCol, lastRow := 1, 1, -1, -1

	tables, err := w.file.GetTables(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables on sheet %s: %w", sheet, err)
	}
	for _, t := range tables {
		if t.Name != table {
			continue
		}
		bounds := strings.Split(t.Range, ":")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("table %s on sheet %s has malformed range %q", table, sheet, t.Range)
		}
		col, row, err := excelize.CellNameToCoordinates(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("table %s on sheet %s has malformed range %q: %w", table, sheet, t.Range, err)
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("table %s on sheet %s has malformed range %q: %w", table, sheet, t.Range, err)
		}
		firstCol, firstRow, lastCol, lastRow = col, row, endCol, endRow
		break
	}

	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < firstRow {
		return nil, nil
	}
	if lastRow < 0 || lastRow > len(rows) {
		lastRow = len(rows)
	}

	header := rows[firstRow-1]
	if lastCol < 0 || lastCol > len(header) {
		lastCol = len(header)
	}

	var data []map[string]string
	for _, row := range rows[firstRow:lastRow] {
		record := make(map[string]string, lastCol-firstCol+1)
		empty := true
		for i := firstCol - 1; i < lastCol; i++ {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			if value != "" {
				empty = false
			}
			record[header[i]] = value
		}
		if !empty {
			data = append(data, record)
		}
	}
	return data, nil
}
