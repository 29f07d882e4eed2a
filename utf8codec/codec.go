package utf8codec

import (
	"errors"
	"strings"
)

// Encode returns the UTF-8 bytes of text, obtained by percent-encoding it as
// a URI component and reading every %XY triplet back as one byte.
//
// Bytes of text that are not valid UTF-8 are escaped one at a time and so
// come back unchanged.
func Encode(text string) []byte {
	escaped := EscapeComponent(text)
	out := make([]byte, 0, len(text))
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		// EscapeComponent only emits well-formed triplets.
		hi, _ := unhex(escaped[i+1])
		lo, _ := unhex(escaped[i+2])
		out = append(out, hi<<4|lo)
		i += 2
	}
	return out
}

// Decode is the inverse of Encode. Every byte is written as a lowercase %xy
// escape and the result is percent-decoded; input that is not valid UTF-8
// fails with a *DecodeError whose Offset is the first offending byte.
func Decode(b []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(3 * len(b))
	for _, c := range b {
		sb.WriteByte('%')
		sb.WriteByte(lowerhex[c>>4])
		sb.WriteByte(lowerhex[c&15])
	}

	text, err := UnescapeComponent(sb.String())
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return "", &DecodeError{Offset: de.Offset / 3, Reason: de.Reason}
		}
		return "", err
	}
	return text, nil
}
