// Package strings provides string helpers shared by handlers and catalog queries.
package strings

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DedupeAndTrimUpper trims, uppercases and removes duplicates and empty
// strings from a slice. Order is preserved.
//
// Example:
//
//	DedupeAndTrimUpper([]string{" pending", "PENDING", "", "approved"})
//	// Returns: []string{"PENDING", "APPROVED"}
func DedupeAndTrimUpper(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.ToUpper(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// FoldAccents removes combining marks so "PRÁCTICA" compares equal to "PRACTICA".
func FoldAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
