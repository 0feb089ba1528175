package util

import "strings"

// CollapseWhitespace folds embedded line breaks and runs of spaces into
// single spaces and trims the result. Series names in embed bodies wrap
// across lines, so this is applied before they are stored.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// ContainsFold reports whether the slice contains item, ignoring case.
func ContainsFold(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
