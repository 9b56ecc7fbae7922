package tui

import (
	"strings"
	"unicode/utf8"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// contentWidth is the usable width inside a card for a terminal of the given width.
func contentWidth(termWidth int) int {
	const fallback = 72
	if termWidth <= 0 {
		return fallback
	}
	w := termWidth - 8
	if w < 20 {
		return 20
	}
	return w
}
