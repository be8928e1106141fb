// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits extracted text into sentences and bullet lines.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// bulletCutset is stripped from both ends of every bullet line.
const bulletCutset = " -•\t\r"

// Sentences splits text after '.', '!' or '?' when the mark is followed by
// whitespace. The whitespace run is consumed. A dot inside a number such as
// "$5.00" is never a boundary because no whitespace follows it. Results are
// trimmed, empty pieces dropped, order preserved.
func Sentences(text string) []string {
	sentences := []string{}
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isTerminal(r) || i >= len(text) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(next) {
			continue
		}
		sentences = appendTrimmed(sentences, text[start:i])
		for i < len(text) {
			ws, wsSize := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(ws) {
				break
			}
			i += wsSize
		}
		start = i
	}
	return appendTrimmed(sentences, text[start:])
}

// Bullets splits text into lines and strips surrounding spaces, hyphens,
// bullet characters and tabs from each. Lines left empty are dropped.
func Bullets(text string) []string {
	bullets := []string{}
	for _, line := range strings.Split(text, "\n") {
		if b := strings.Trim(line, bulletCutset); b != "" {
			bullets = append(bullets, b)
		}
	}
	return bullets
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}
