// Package engine evaluates the rule table against a record snapshot
// and produces ranked coaching triggers.
package engine

import (
	"sort"
	"strings"
	"time"

	"shiftdeck/internal/rules"
)

// Trigger is one rule firing against a specific entity. Triggers are
// created fresh on every evaluation pass and never mutated.
type Trigger struct {
	RuleID         string
	Severity       rules.Severity
	Description    string
	Evidence       string
	Recommendation string
	Scope          rules.Scope
	AffectedEntity string
	Timestamp      time.Time
	Impact         int
}

// hitKey identifies the entity a predicate holds for: its components
// joined by a separator that cannot occur in cell text.
type hitKey string

const keySep = "\x1f"

func makeKey(parts ...string) hitKey {
	return hitKey(strings.Join(parts, keySep))
}

func (k hitKey) parts() []string {
	return strings.Split(string(k), keySep)
}

type hitSet map[hitKey]struct{}

func (s hitSet) add(k hitKey) {
	s[k] = struct{}{}
}

// intersect computes the conjunction of per-call hit sets. AND means
// set intersection: each call yields a population of matching
// entities, not a boolean.
func intersect(sets []hitSet) hitSet {
	if len(sets) == 0 {
		return hitSet{}
	}

	result := sets[0]
	for _, s := range sets[1:] {
		next := make(hitSet)
		for k := range result {
			if _, ok := s[k]; ok {
				next.add(k)
			}
		}
		result = next
	}
	return result
}

// sortedKeys fixes a canonical iteration order so trigger output is
// deterministic.
func (s hitSet) sortedKeys() []hitKey {
	keys := make([]hitKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// entityLabel joins the populated key components; a key with no
// populated components labels as Unknown.
func entityLabel(k hitKey) (string, int) {
	var populated []string
	for _, part := range k.parts() {
		if part != "" {
			populated = append(populated, part)
		}
	}
	if len(populated) == 0 {
		return "Unknown", 0
	}
	return strings.Join(populated, ","), len(populated)
}
