package engine

import (
	"context"
	"time"

	"shiftdeck/internal/dsl"
	"shiftdeck/internal/logger"
	"shiftdeck/internal/records"
	"shiftdeck/internal/rules"
	"shiftdeck/pkg/metrics"
)

// Evaluator runs one synchronous pass of the rule table over a record
// snapshot. It keeps no state between passes, so callers may run
// independent snapshots in parallel.
type Evaluator struct {
	logger logger.Logger

	// Clock supplies the evaluation instant; tests pin it.
	Clock func() time.Time
}

func NewEvaluator(log logger.Logger) *Evaluator {
	return &Evaluator{
		logger: log,
		Clock:  time.Now,
	}
}

// Evaluate emits one Trigger per entity each enabled rule currently
// holds for. A rule whose condition fails to parse is skipped; it
// never aborts the pass.
func (e *Evaluator) Evaluate(ctx context.Context, table []rules.Rule, snap *records.Snapshot) []Trigger {
	start := time.Now()
	now := e.Clock()
	standards := snap.StandardIndex()

	var triggers []Trigger
	enabled := 0

	for _, rule := range table {
		if !rule.Enabled {
			continue
		}
		enabled++

		calls, err := dsl.Parse(rule.Condition)
		if err != nil {
			metrics.RulesEvaluatedTotal.WithLabelValues("parse_error").Inc()
			e.logger.WarnwCtx(ctx, "Skipping rule with unparseable condition",
				"rule_id", rule.ID,
				"error", err,
			)
			continue
		}
		if len(calls) == 0 {
			metrics.RulesEvaluatedTotal.WithLabelValues("empty").Inc()
			continue
		}

		sets := make([]hitSet, 0, len(calls))
		for _, call := range calls {
			sets = append(sets, e.evalCall(call, snap, standards, now))
		}

		hits := intersect(sets)
		metrics.RulesEvaluatedTotal.WithLabelValues("evaluated").Inc()
		if len(hits) == 0 {
			continue
		}

		recommendation := Sanitize(rule.Recommendation)
		for _, key := range hits.sortedKeys() {
			entity, impact := entityLabel(key)
			triggers = append(triggers, Trigger{
				RuleID:         rule.ID,
				Severity:       rule.Severity,
				Description:    rule.Description,
				Evidence:       rule.Condition,
				Recommendation: recommendation,
				Scope:          rule.Scope,
				AffectedEntity: entity,
				Timestamp:      now,
				Impact:         impact,
			})
			metrics.TriggersEmittedTotal.WithLabelValues(string(rule.Severity)).Inc()
		}

		e.logger.DebugwCtx(ctx, "Rule fired",
			"rule_id", rule.ID,
			"hits", len(hits),
		)
	}

	metrics.SetActiveRules(enabled)
	metrics.ObserveEvaluationDuration(time.Since(start))
	e.logger.InfowCtx(ctx, "Evaluation pass complete",
		"rules_enabled", enabled,
		"triggers", len(triggers),
	)

	return triggers
}

func (e *Evaluator) evalCall(call dsl.Call, snap *records.Snapshot, standards map[records.StandardKey]struct{}, now time.Time) hitSet {
	switch call.Func {
	case dsl.FuncConsecBelow:
		return consecBelow(snap.Hourly, call)
	case dsl.FuncRollingCount:
		return rollingCount(snap.Downtime, now, call)
	case dsl.FuncMissingStandard:
		return missingStandard(snap.Hourly, standards)
	case dsl.FuncScheduleOverlap:
		return scheduleOverlap(snap.Schedule)
	case dsl.FuncRepeatCause:
		return repeatCause(snap.Downtime, now, call)
	case dsl.FuncForecastShortfall:
		return forecastShortfall(snap.Hourly, snap.Schedule, call)
	}
	return hitSet{}
}
