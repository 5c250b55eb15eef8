// Package format holds text helpers for Telegram HTML messages.
package format

import (
	"html"
	"strings"
)

// EscapeHTML escapes user-provided text for parse_mode HTML.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// Truncate cuts s to at most max runes, ending with "..." when shortened.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Lines joins non-empty blocks with blank lines between them.
func Lines(blocks ...string) string {
	var kept []string
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
