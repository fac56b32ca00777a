// Package utils provides shared helpers for text, math, and logging.
package utils

// Truncate clips s to at most max runes, appending an ellipsis when clipped.
// Preview lengths are configured in characters, so this counts runes rather
// than bytes to avoid splitting multibyte text in served replies.
// A non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
