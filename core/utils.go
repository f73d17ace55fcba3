package core

import "strings"

// CleanString trims surrounding whitespace and optionally lower-cases `s`.
// Emails and search terms are cleaned with it before any lookup or store.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
