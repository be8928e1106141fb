// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "regexp"

// ambiguityCheck pairs a case-insensitive pattern with the flag it raises.
type ambiguityCheck struct {
	pattern *regexp.Regexp
	message string
}

// Flags raised by Ambiguities.
const (
	FlagTBD     = "Unspecified details (TBD) present"
	FlagNumeric = "Numeric values might be constraints; verify"
	FlagEtc     = "Ambiguous lists (etc.)"
)

// Word boundaries over Unicode letters and numbers. RE2's \b and \d are
// ASCII-only.
const (
	wordChar    = `[\p{L}\p{N}_]`
	nonWordChar = `[^\p{L}\p{N}_]`
	startOfWord = `(?:^|` + nonWordChar + `)`
	endOfWord   = `(?:$|` + nonWordChar + `)`
)

// ambiguityChecks run in this order. The numeric pattern fires on any
// standalone digit run, with or without a duration unit. "etc." only counts
// when a word character follows the dot directly.
var ambiguityChecks = []ambiguityCheck{
	{regexp.MustCompile(`(?i)TBD|to be decided`), FlagTBD},
	{regexp.MustCompile(`(?i)` + startOfWord + `\p{Nd}+(?:[\s\p{Z}]*(?:days|weeks|months))?` + endOfWord), FlagNumeric},
	{regexp.MustCompile(`(?i)` + startOfWord + `(?:etc\.` + wordChar + `|and so on` + endOfWord + `)`), FlagEtc},
}

// Ambiguities scans the whole corpus and returns one message per matching
// check, in check order.
func Ambiguities(corpus string) []string {
	flags := []string{}
	for _, c := range ambiguityChecks {
		if c.pattern.MatchString(corpus) {
			flags = append(flags, c.message)
		}
	}
	return dedupe(flags)
}
