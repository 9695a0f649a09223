package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shiftdeck/internal/rules"
)

func TestRankBySeverity(t *testing.T) {
	triggers := []Trigger{
		{RuleID: "A", Severity: rules.SeverityWatch},
		{RuleID: "B", Severity: rules.SeverityUrgent},
		{RuleID: "C", Severity: rules.SeverityAction},
	}

	Rank(triggers)

	got := []rules.Severity{triggers[0].Severity, triggers[1].Severity, triggers[2].Severity}
	assert.Equal(t, []rules.Severity{rules.SeverityUrgent, rules.SeverityAction, rules.SeverityWatch}, got)
}

func TestRankTieBreakers(t *testing.T) {
	early := time.Date(2025, 8, 8, 6, 0, 0, 0, time.UTC)
	late := early.Add(4 * time.Hour)

	triggers := []Trigger{
		{RuleID: "low_impact", Severity: rules.SeverityAction, Impact: 1, Timestamp: early},
		{RuleID: "late", Severity: rules.SeverityAction, Impact: 2, Timestamp: late},
		{RuleID: "early", Severity: rules.SeverityAction, Impact: 2, Timestamp: early},
	}

	Rank(triggers)

	assert.Equal(t, "early", triggers[0].RuleID, "higher impact, earlier timestamp first")
	assert.Equal(t, "late", triggers[1].RuleID)
	assert.Equal(t, "low_impact", triggers[2].RuleID)
}

func TestRankUnknownSeverityLast(t *testing.T) {
	triggers := []Trigger{
		{RuleID: "odd", Severity: rules.Severity("Critical")},
		{RuleID: "info", Severity: rules.SeverityInfo},
	}

	Rank(triggers)

	assert.Equal(t, "info", triggers[0].RuleID)
	assert.Equal(t, "odd", triggers[1].RuleID)
}

func TestRankIsStable(t *testing.T) {
	now := time.Date(2025, 8, 8, 6, 0, 0, 0, time.UTC)
	triggers := []Trigger{
		{RuleID: "first", Severity: rules.SeverityWatch, Impact: 1, Timestamp: now},
		{RuleID: "second", Severity: rules.SeverityWatch, Impact: 1, Timestamp: now},
	}

	Rank(triggers)

	assert.Equal(t, "first", triggers[0].RuleID)
	assert.Equal(t, "second", triggers[1].RuleID)
}
