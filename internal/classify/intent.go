// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "strings"

const (
	// intentWindow is how many leading sentences are searched for an intent marker.
	intentWindow = 5
	// intentFallbackRunes caps the raw-corpus fallback when there are no sentences.
	intentFallbackRunes = 240
)

// Intent picks the sentence most likely to state the purpose: the first of
// the leading five sentences that mentions building, designing, creating,
// developing or making something, otherwise the first sentence. With no
// sentences it falls back to the start of the trimmed corpus.
func Intent(sentences []string, corpus string) string {
	if len(sentences) == 0 {
		return truncateRunes(strings.TrimSpace(corpus), intentFallbackRunes)
	}
	window := sentences
	if len(window) > intentWindow {
		window = window[:intentWindow]
	}
	for _, s := range window {
		if containsAny(strings.ToLower(s), intentMarkers) {
			return s
		}
	}
	return sentences[0]
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
