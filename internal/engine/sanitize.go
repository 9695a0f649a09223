package engine

import "strings"

// CoachingFallback replaces any recommendation that reaches for
// disciplinary language. Generated prompts stay developmental.
const CoachingFallback = "Provide coaching and process support to remove the operational barrier."

var bannedTerms = []string{"disciplinary", "write-up", "punish", "terminate"}

// Sanitize returns the recommendation unchanged unless it contains a
// banned term (case-insensitive), in which case the whole text is
// replaced with the coaching fallback.
func Sanitize(text string) string {
	lower := strings.ToLower(text)
	for _, term := range bannedTerms {
		if strings.Contains(lower, term) {
			return CoachingFallback
		}
	}
	return text
}
