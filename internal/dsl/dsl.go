// Package dsl parses rule condition text into predicate calls. A
// condition is one or more calls joined by the literal connective AND,
// each with the lexical form NAME(key="value", key=123, key=1.5).
package dsl

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Func identifies one of the supported predicate functions. The set is
// closed: conditions naming anything else fail at parse time.
type Func string

const (
	FuncConsecBelow       Func = "CONSEC_BELOW"
	FuncRollingCount      Func = "ROLLING_COUNT"
	FuncMissingStandard   Func = "MISSING_STANDARD"
	FuncScheduleOverlap   Func = "SCHEDULE_OVERLAP"
	FuncRepeatCause       Func = "REPEAT_CAUSE"
	FuncForecastShortfall Func = "FORECAST_SHORTFALL"
)

var knownFuncs = map[string]Func{
	string(FuncConsecBelow):       FuncConsecBelow,
	string(FuncRollingCount):      FuncRollingCount,
	string(FuncMissingStandard):   FuncMissingStandard,
	string(FuncScheduleOverlap):   FuncScheduleOverlap,
	string(FuncRepeatCause):       FuncRepeatCause,
	string(FuncForecastShortfall): FuncForecastShortfall,
}

type SyntaxError struct {
	Expr   string
	Detail string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid DSL expression %q: %s", e.Expr, e.Detail)
}

// Call is one parsed predicate invocation. Argument values are typed
// literals: int64, float64, or string. Immutable once parsed.
type Call struct {
	Func Func
	Args map[string]interface{}
}

var (
	andSplitRE = regexp.MustCompile(`\s+AND\s+`)
	callRE     = regexp.MustCompile(`^([A-Z_]+)\((.*)\)$`)
	argNameRE  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)
	intRE      = regexp.MustCompile(`^-?\d+$`)
	floatRE    = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// Parse turns condition text into an ordered call list. An empty
// condition parses to an empty list. Parse is pure, so the linter can
// call it without touching any data.
func Parse(condition string) ([]Call, error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil, nil
	}

	var calls []Call
	for _, chunk := range andSplitRE.Split(condition, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		call, err := parseCall(chunk)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func parseCall(expr string) (Call, error) {
	m := callRE.FindStringSubmatch(expr)
	if m == nil {
		return Call{}, &SyntaxError{Expr: expr, Detail: "expected NAME(key=value, ...)"}
	}

	fn, ok := knownFuncs[m[1]]
	if !ok {
		return Call{}, &SyntaxError{Expr: expr, Detail: fmt.Sprintf("unknown function %s", m[1])}
	}

	args := make(map[string]interface{})
	for _, part := range splitArgs(m[2]) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return Call{}, &SyntaxError{Expr: expr, Detail: fmt.Sprintf("malformed argument %q", part)}
		}
		args[strings.TrimSpace(key)] = parseLiteral(strings.TrimSpace(value))
	}

	return Call{Func: fn, Args: args}, nil
}

// splitArgs splits at commas only when they start a new key=value
// pair, so values may themselves contain commas.
func splitArgs(raw string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != ',' {
			continue
		}
		rest := strings.TrimLeft(raw[i+1:], " \t")
		if argNameRE.MatchString(rest) {
			parts = append(parts, raw[start:i])
			start = i + 1
		}
	}
	return append(parts, raw[start:])
}

func parseLiteral(v string) interface{} {
	v = strings.Trim(v, `"`)
	if floatRE.MatchString(v) {
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	if intRE.MatchString(v) {
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return v
}

// Int returns an integer argument, tolerating float literals the way
// rule authors write them, or def when absent.
func (c Call) Int(name string, def int) int {
	switch v := c.Args[name].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func (c Call) Float(name string, def float64) float64 {
	switch v := c.Args[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return def
}

func (c Call) Str(name, def string) string {
	if v, ok := c.Args[name].(string); ok {
		return v
	}
	return def
}

// String re-serializes the call with arguments in name order.
func (c Call) String() string {
	names := make([]string, 0, len(c.Args))
	for name := range c.Args {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(string(c.Func))
	b.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		switch v := c.Args[name].(type) {
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		case string:
			b.WriteByte('"')
			b.WriteString(v)
			b.WriteByte('"')
		}
	}
	b.WriteByte(')')
	return b.String()
}
