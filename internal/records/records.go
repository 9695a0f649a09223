// Package records holds the typed row collections the engine evaluates:
// schedule slots, hourly production samples, downtime events, and
// standards. Columns the predicate library never reads are preserved in
// each record's Extra map but otherwise ignored.
package records

import "time"

type ScheduleSlot struct {
	RowID        string
	Date         string
	Shift        string
	Line         string
	Start        time.Time
	End          time.Time
	Order        string
	SKU          string
	PlannedCases string
	Notes        string
	Extra        map[string]string
}

type HourlySample struct {
	RowID            string
	Date             string
	Shift            string
	Line             string
	HourEnding       time.Time
	ActualCases      string
	SKUResolved      string
	StdCPH           string
	StdCasesThisHour string
	RateAttain       string
	TargetRateAttain string
	TargetAttain     string
	Extra            map[string]string
}

type DowntimeEvent struct {
	RowID         string
	Date          string
	Shift         string
	Line          string
	Start         time.Time
	End           time.Time
	Minutes       string
	Machine       string
	OperatorEmpID string
	Category      string
	Cause         string
	ActionTaken   string
	Escalated     string
	ResolvedBy    string
	Notes         string
	Extra         map[string]string
}

type Standard struct {
	Line        string
	SKU         string
	ProductName string
	StdCPH      string
	Extra       map[string]string
}

// StandardKey indexes standards by (line, SKU).
type StandardKey struct {
	Line string
	SKU  string
}

// Snapshot bundles the four row collections read for one evaluation
// pass. The engine treats it as immutable.
type Snapshot struct {
	Schedule  []ScheduleSlot
	Hourly    []HourlySample
	Downtime  []DowntimeEvent
	Standards []Standard
}

func (s *Snapshot) StandardIndex() map[StandardKey]struct{} {
	index := make(map[StandardKey]struct{}, len(s.Standards))
	for _, std := range s.Standards {
		index[StandardKey{Line: std.Line, SKU: std.SKU}] = struct{}{}
	}
	return index
}

// Field returns the value of a named column as text, so predicates can
// group by arbitrary columns. Unknown names fall back to Extra.
func (s ScheduleSlot) Field(name string) string {
	switch name {
	case "RowID":
		return s.RowID
	case "Date":
		return s.Date
	case "Shift":
		return s.Shift
	case "Line":
		return s.Line
	case "StartDT":
		return FormatTime(s.Start)
	case "EndDT":
		return FormatTime(s.End)
	case "Order":
		return s.Order
	case "SKU":
		return s.SKU
	case "PlannedCases":
		return s.PlannedCases
	case "Notes":
		return s.Notes
	}
	return s.Extra[name]
}

func (h HourlySample) Field(name string) string {
	switch name {
	case "RowID":
		return h.RowID
	case "Date":
		return h.Date
	case "Shift":
		return h.Shift
	case "Line":
		return h.Line
	case "HourEndingDT":
		return FormatTime(h.HourEnding)
	case "ActualCases":
		return h.ActualCases
	case "SKU_Resolved":
		return h.SKUResolved
	case "Std_CPH":
		return h.StdCPH
	case "StdCasesThisHour":
		return h.StdCasesThisHour
	case "RateAttain_100":
		return h.RateAttain
	case "TargetRateAttain":
		return h.TargetRateAttain
	case "TargetAttain":
		return h.TargetAttain
	}
	return h.Extra[name]
}

// Metric reads a named column as a number, applying the coercion rules
// for dirty cells (blank, non-numeric, or formula remnants become 0).
func (h HourlySample) Metric(name string) float64 {
	return ToFloat(h.Field(name))
}

func (d DowntimeEvent) Field(name string) string {
	switch name {
	case "RowID":
		return d.RowID
	case "Date":
		return d.Date
	case "Shift":
		return d.Shift
	case "Line":
		return d.Line
	case "StartDT":
		return FormatTime(d.Start)
	case "EndDT":
		return FormatTime(d.End)
	case "Minutes":
		return d.Minutes
	case "Machine":
		return d.Machine
	case "OperatorEmpID":
		return d.OperatorEmpID
	case "Category":
		return d.Category
	case "Cause":
		return d.Cause
	case "ActionTaken":
		return d.ActionTaken
	case "EscalatedYN":
		return d.Escalated
	case "ResolvedBy":
		return d.ResolvedBy
	case "Notes":
		return d.Notes
	}
	return d.Extra[name]
}

func (s Standard) Field(name string) string {
	switch name {
	case "Line":
		return s.Line
	case "SKU":
		return s.SKU
	case "ProductName":
		return s.ProductName
	case "Std_CPH":
		return s.StdCPH
	}
	return s.Extra[name]
}
