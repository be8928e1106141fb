// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify buckets sentences into requirements, constraints and
// deliverables by case-insensitive marker matching, guesses the intent
// sentence, and flags ambiguous wording.
//
// Matching is plain substring containment on the lowercased sentence:
// there is no tokenization, so "allowance" matches the marker "allow".
package classify

import "strings"

// Marker tables. Entries are lowercase.
var (
	requirementMarkers = []string{"must", "should", "need to", "required", "support", "allow", "enable"}

	constraintMarkers = []string{
		"constraint", "limited", "deadline", "budget", "tech stack", "only",
		"at most", "no ", "cannot", "$", "usd", "cost",
	}

	deliverableMarkers = []string{"deliver", "output", "artifact", "report", "document", "prototype", "mockup", "api spec"}

	intentMarkers = []string{"build", "design", "create", "develop", "make"}
)

// Requirements returns the sentences containing a requirement marker, in order.
func Requirements(sentences []string) []string {
	return collect(sentences, requirementMarkers)
}

// Constraints returns the sentences containing a constraint marker,
// deduplicated with the first occurrence kept.
func Constraints(sentences []string) []string {
	results := []string{}
	for _, s := range sentences {
		lower := strings.ToLower(s)
		if !containsAny(lower, constraintMarkers) {
			continue
		}
		// Currency and budget sentences are already covered by the marker
		// check above, so this branch never changes the outcome.
		if strings.Contains(s, "$") || strings.Contains(lower, "budget") {
			results = append(results, s)
		} else if containsAny(lower, constraintMarkers) {
			results = append(results, s)
		}
	}
	return dedupe(results)
}

// Deliverables returns the sentences containing a deliverable marker, in order.
func Deliverables(sentences []string) []string {
	return collect(sentences, deliverableMarkers)
}

func collect(sentences, markers []string) []string {
	results := []string{}
	for _, s := range sentences {
		if containsAny(strings.ToLower(s), markers) {
			results = append(results, s)
		}
	}
	return results
}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// dedupe drops repeated entries, keeping the first occurrence of each.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
