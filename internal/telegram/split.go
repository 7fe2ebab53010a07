package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into chunks of at most maxLen runes, preferring
// to cut at a newline in the second half of a chunk.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			parts = append(parts, string(runes))
			break
		}

		cut := maxLen
		if nl := strings.LastIndex(string(runes[:maxLen]), "\n"); nl >= 0 {
			if at := utf8.RuneCountInString(string(runes[:maxLen])[:nl]); at > maxLen/2 {
				cut = at + 1
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return parts
}
