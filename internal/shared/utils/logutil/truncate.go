// Package logutil holds helpers for shaping values before they are logged.
package logutil

import "unicode/utf8"

// TruncateForLog shortens s to at most maxLen runes, appending "..." when
// anything was cut. Used for tracker response bodies and webhook payloads.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
