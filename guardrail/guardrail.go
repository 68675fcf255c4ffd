// Package guardrail implements the keyword-based pre-processing checks that
// gate a user message before it reaches agent logic. Evaluation is pure: the
// same message and wall-clock reading always produce the same checks.
//
// The checks are intentionally simplistic substring scans; they are the
// documented contract, not an idealized classifier.
package guardrail

import (
	"strings"

	"github.com/flightdeskhq/flightdesk/core"
)

// Check names as reported in turn responses and the agent roster.
const (
	RelevanceName = "Relevance Guardrail"
	JailbreakName = "Jailbreak Guardrail"
)

// shortMessageLimit is the trimmed length under which a message is presumed
// to be a greeting and therefore relevant.
const shortMessageLimit = 10

// relevanceKeywords is the fixed domain vocabulary; a case-insensitive hit on
// any entry makes the message relevant.
var relevanceKeywords = []string{
	"flight", "seat", "baggage", "cancel", "status",
	"book", "ticket", "airline", "plane", "gate",
}

// jailbreakPatterns is the fixed vocabulary of suspicious substrings; a
// case-insensitive hit on any entry fails the safety check.
var jailbreakPatterns = []string{
	"system prompt", "instructions", "ignore", "override", "bypass", "admin", "root",
}

// Evaluate runs all checks against the raw message, in fixed order, and
// returns one GuardrailCheck per check. Checks run unconditionally, including
// on empty messages (which are always relevant and safe). Both checks share a
// single wall-clock reading.
func Evaluate(message string) []core.GuardrailCheck {
	timestamp := core.NowMillis()
	lower := strings.ToLower(message)

	relevant := containsAny(lower, relevanceKeywords) ||
		len(strings.TrimSpace(message)) < shortMessageLimit
	relevanceReason := "Message contains airline-related keywords"
	if !relevant {
		relevanceReason = "Message does not seem related to airline services"
	}

	safe := !containsAny(lower, jailbreakPatterns)
	jailbreakReason := "No jailbreak attempt detected"
	if !safe {
		jailbreakReason = "Potential jailbreak attempt detected"
	}

	return []core.GuardrailCheck{
		{
			ID:        core.NewID(),
			Name:      RelevanceName,
			Input:     message,
			Reasoning: relevanceReason,
			Passed:    relevant,
			Timestamp: timestamp,
		},
		{
			ID:        core.NewID(),
			Name:      JailbreakName,
			Input:     message,
			Reasoning: jailbreakReason,
			Passed:    safe,
			Timestamp: timestamp,
		},
	}
}

// FirstFailure returns the first failed check, or nil if all passed.
func FirstFailure(checks []core.GuardrailCheck) *core.GuardrailCheck {
	for i := range checks {
		if !checks[i].Passed {
			return &checks[i]
		}
	}
	return nil
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
