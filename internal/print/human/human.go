// Package human provides value types that parse and format human-friendly
// representations of quantities used in configuration files and command line
// flags (byte sizes, counts, file system paths).
package human

import (
	"fmt"
	"strings"
	"unicode"
)

// parseUnit splits a value like "1.5 MiB" into its numeric head and its
// trailing unit, tolerating the absence of a separator.
func parseUnit(s string) (head, unit string) {
	i := strings.LastIndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if i < 0 {
		return s, ""
	}
	return strings.TrimRightFunc(s[:i+1], unicode.IsSpace), s[i+1:]
}

// match reports whether s is a case-insensitive prefix of pattern, which
// allows writing "8Mi" for "8MiB" or "10k" for "10K".
func match(s, pattern string) bool {
	return len(s) > 0 && len(s) <= len(pattern) && strings.EqualFold(s, pattern[:len(s)])
}

func ftoa(value, scale float64) string {
	if value == 0 {
		return "0"
	}
	if value < 0 {
		return "-" + ftoa(-value, scale)
	}
	var format string
	switch {
	case (value / scale) >= 100:
		format = "%.0f"
	case (value / scale) >= 10:
		format = "%.1f"
	case scale > 1:
		format = "%.2f"
	default:
		format = "%.3f"
	}
	s := fmt.Sprintf(format, value/scale)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
