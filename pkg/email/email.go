// Package email derives human-readable display names from the official
// account addresses municipal staff sign up with.
package email

import (
	"strings"
	"unicode"
)

// DeriveDisplayName turns an address like "maria.rossi@comune.example.it"
// into "Maria Rossi". It is a fallback for registrations that omit a name;
// the result is a guess, not authoritative data.
func DeriveDisplayName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at >= 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return ""
	}

	for i, part := range parts {
		parts[i] = capitalize(part)
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
