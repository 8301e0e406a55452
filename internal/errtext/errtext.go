// Package errtext turns underlying error text into stable, log-safe
// excerpts for inclusion in failure messages.
package errtext

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLen is the longest excerpt Sanitize returns, in runes.
const MaxLen = 256

var (
	pkgPrefix = regexp.MustCompile(`^(?:[a-z][a-z0-9]*(?:\.[A-Za-z0-9_]+)?: )+`)
	address   = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)
	spaces    = regexp.MustCompile(`\s+`)
)

// Sanitize strips package-qualified prefixes and pointer addresses from
// err's message, collapses whitespace and truncates the result.
func Sanitize(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString applies Sanitize's rules to raw text.
func SanitizeString(s string) string {
	s = spaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = pkgPrefix.ReplaceAllString(s, "")
	s = address.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(strings.TrimSpace(s), " ")
	if utf8.RuneCountInString(s) > MaxLen {
		s = string([]rune(s)[:MaxLen]) + "..."
	}
	return s
}
