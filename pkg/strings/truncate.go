package strings

import (
	"strings"
	"unicode"
)

// MinTruncateLen is the smallest width Truncate honours. Anything smaller
// would not leave room for one character plus "...".
const MinTruncateLen = 4

// Truncate shortens s to at most width runes and keeps it on one line.
// Runs of whitespace collapse to a single space, and "..." marks a cut.
// Widths below MinTruncateLen are raised to MinTruncateLen.
func Truncate(s string, width int) string {
	if width < MinTruncateLen {
		width = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return s
}

// Initials returns up to two uppercase initials of a display name: the
// first letter of the first and last words. It stands in for the avatar in
// text tiles. Names without letters yield "?".
func Initials(name string) string {
	var letters []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				letters = append(letters, unicode.ToUpper(r))
				break
			}
		}
	}
	switch len(letters) {
	case 0:
		return "?"
	case 1:
		return string(letters[0])
	default:
		return string([]rune{letters[0], letters[len(letters)-1]})
	}
}
