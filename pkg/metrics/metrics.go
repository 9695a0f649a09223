package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RulesEvaluatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_rules_evaluated_total",
			Help: "Total number of rules evaluated by the engine (count)",
		},
		[]string{"status"},
	)

	TriggersEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_triggers_emitted_total",
			Help: "Total number of triggers emitted by the engine (count)",
		},
		[]string{"severity"},
	)

	EvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_evaluation_duration_ms",
			Help:    "Duration of one full evaluation pass in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	ActiveRules = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_active_rules",
			Help: "Number of enabled rules in the last evaluated rule table (count)",
		},
	)

	LintIssues = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_lint_issues",
			Help: "Number of lint issues found in the last rule table pass (count)",
		},
	)

	ArchivedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_rows_total",
			Help: "Total number of rows upserted into the history store (count)",
		},
		[]string{"table"},
	)
)

func RegisterEngineMetrics() {
	prometheus.MustRegister(
		RulesEvaluatedTotal,
		TriggersEmittedTotal,
		EvaluationDuration,
		ActiveRules,
		LintIssues,
	)
}

func RegisterArchiveMetrics() {
	prometheus.MustRegister(ArchivedRowsTotal)
}

func ObserveEvaluationDuration(d time.Duration) {
	EvaluationDuration.Observe(float64(d.Milliseconds()))
}

func SetActiveRules(count int) {
	ActiveRules.Set(float64(count))
}

func SetLintIssues(count int) {
	LintIssues.Set(float64(count))
}
