package relay

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EncodeURIComponent escapes s for use as a single URL path segment. Only
// ASCII letters, digits and - _ . ! ~ * ' ( ) are left unescaped.
func EncodeURIComponent(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("malformed UTF-8 in %q", s)
	}
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String(), nil
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
