package utf8codec

import (
	"strings"
	"unicode/utf8"
)

const (
	upperhex = "0123456789ABCDEF"
	lowerhex = "0123456789abcdef"
)

// shouldEscape reports whether c lies outside the URI-component unreserved set.
func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}
	return true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// EscapeComponent percent-encodes s the way encodeURIComponent does: every
// byte outside A-Z a-z 0-9 - _ . ! ~ * ' ( ) becomes %XY with uppercase hex.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// UnescapeComponent reverses EscapeComponent with decodeURIComponent rules.
// A '%' not followed by two hex digits, or escapes that decode to invalid
// UTF-8, fail with a *DecodeError.
func UnescapeComponent(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		if bad := invalidUTF8At([]byte(s)); bad >= 0 {
			return "", &DecodeError{Offset: bad, Reason: reasonUTF8}
		}
		return s, nil
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(s) {
			return "", &DecodeError{Offset: i, Reason: reasonEscape}
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", &DecodeError{Offset: i, Reason: reasonEscape}
		}
		out = append(out, hi<<4|lo)
		i += 2
	}

	if bad := invalidUTF8At(out); bad >= 0 {
		return "", &DecodeError{Offset: sourceOffset(s, bad), Reason: reasonUTF8}
	}
	return string(out), nil
}

// invalidUTF8At returns the index of the first byte that does not start a
// valid UTF-8 sequence, or -1. Surrogates and overlong forms are invalid.
func invalidUTF8At(b []byte) int {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// sourceOffset maps the index of a decoded byte back to its position in the
// escaped string.
func sourceOffset(s string, decoded int) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if n == decoded {
			return i
		}
		if s[i] == '%' {
			i += 2
		}
		n++
	}
	return len(s)
}
