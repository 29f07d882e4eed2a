package utf8codec

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed = errors.New("utf8codec: malformed byte sequence")
	ErrByteRange = errors.New("utf8codec: byte value out of range")
)

// DecodeError reports where percent-decoding failed.
//
// Offset is an index into the input of the failing call: a byte index for
// Decode, a string index for UnescapeComponent.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("utf8codec: %s at offset %d", e.Reason, e.Offset)
}

// Is makes every DecodeError match ErrMalformed.
func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformed
}

const (
	reasonEscape = "malformed escape"
	reasonUTF8   = "invalid UTF-8 sequence"
)
