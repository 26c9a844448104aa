// Package sanitize prepares user-controlled strings for audit and error
// output. Object titles, summaries, and file lists come from callers and may
// carry injection attempts or paths that must not leak back out verbatim.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxDisplayLength bounds echoed strings.
const maxDisplayLength = 200

// injectionPatterns match recognizable prompt/shell-injection substrings.
// Matches are redacted, not dropped, so the surrounding message stays legible.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)<\s*/?(script|system|assistant|user)\b[^>]*>`),
	regexp.MustCompile("`[^`]*`"),
	regexp.MustCompile(`\$\([^)]*\)`),
	regexp.MustCompile(`\$\{[^}]*\}`),
}

// absPathPattern matches absolute unix and windows path fragments so
// error text never leaks filesystem layout.
var absPathPattern = regexp.MustCompile(`(/[\w.-]+){2,}|[A-Za-z]:\\[\w\\.-]+`)

// controlChars matches control characters except tab.
var controlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

// ForDisplay redacts injection-pattern substrings and absolute paths,
// strips control characters, collapses newlines, and truncates to a bounded
// length.
func ForDisplay(s string) string {
	out := s
	for _, p := range injectionPatterns {
		out = p.ReplaceAllString(out, "[redacted]")
	}
	out = absPathPattern.ReplaceAllString(out, "[path]")
	out = strings.ReplaceAll(out, "\n", " ")
	out = strings.ReplaceAll(out, "\r", " ")
	out = controlChars.ReplaceAllString(out, "")

	if len(out) > maxDisplayLength {
		out = truncateRunes(out, maxDisplayLength) + "…"
	}
	return out
}

// truncateRunes cuts on a rune boundary at or below max bytes, so a
// multi-byte character at the cut point is dropped whole rather than split
// into invalid UTF-8.
func truncateRunes(s string, max int) string {
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
