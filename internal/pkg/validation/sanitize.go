package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// CleanText trims s and drops control characters other than newline and tab.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeHTML keeps the safe formatting subset of s and drops scripts,
// event handlers and other active content.
func SanitizeHTML(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(CleanText(s)))
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CleanList trims every entry and drops the empty ones.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = CleanText(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
