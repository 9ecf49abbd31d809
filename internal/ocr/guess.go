// ABOUTME: Medication name guessing from recognized label text.
// ABOUTME: Keeps lines longer than two characters with a letter and picks the longest.
package ocr

import "strings"

// Placeholder is returned when no line looks like a name.
const Placeholder = "Could not read name"

// GuessName picks the longest plausible line. On a tie the later line wins.
func GuessName(text string) string {
	best := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 2 || !hasLetter(line) {
			continue
		}
		if len(line) >= len(best) {
			best = line
		}
	}
	if best == "" {
		return Placeholder
	}
	return best
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
