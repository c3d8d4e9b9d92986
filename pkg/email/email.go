// Package email holds address helpers used by the intake and the notifier.
package email

import (
	"net/mail"
	"strings"
	"unicode"
)

// Normalize trims and lowercases an address.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsValid reports whether addr is a bare RFC 5322 address with a dotted domain.
func IsValid(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return false
	}
	at := strings.LastIndexByte(addr, '@')
	return at > 0 && strings.Contains(addr[at+1:], ".")
}

// Mask hides most of the local part for logs: "juan.perez@x.co" -> "j*********@x.co".
func Mask(addr string) string {
	at := strings.IndexByte(addr, '@')
	if at <= 0 {
		return "***"
	}
	return addr[:1] + strings.Repeat("*", at-1) + addr[at:]
}

// DisplayName returns fullName in title case, or a name derived from the
// address local part when fullName is empty.
func DisplayName(fullName, addr string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		words := strings.Fields(strings.ToLower(name))
		for i, w := range words {
			words[i] = capitalize(w)
		}
		return strings.Join(words, " ")
	}

	localPart := addr
	if at := strings.IndexByte(addr, '@'); at > 0 {
		localPart = addr[:at]
	}
	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Estudiante"
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
