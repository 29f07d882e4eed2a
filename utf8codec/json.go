package utf8codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ByteSeq is a byte sequence that travels as a JSON array of integers, the
// shape a browser produces from a typed array or a plain number array.
type ByteSeq []byte

// FromText returns the UTF-8 bytes of text as a ByteSeq.
func FromText(text string) ByteSeq {
	return ByteSeq(Encode(text))
}

// Text decodes the sequence back into a string.
func (b ByteSeq) Text() (string, error) {
	return Decode(b)
}

func (b ByteSeq) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, 2+4*len(b))
	out = append(out, '[')
	for i, c := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(c), 10)
	}
	return append(out, ']'), nil
}

func (b *ByteSeq) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values []json.Number
	if err := dec.Decode(&values); err != nil {
		return fmt.Errorf("utf8codec: byte sequence: %w", err)
	}

	out := make(ByteSeq, len(values))
	for i, v := range values {
		// JSON has one number type: 1.0 and 1e2 are the integers 1 and 100.
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) || f < 0 || f > 255 {
			return fmt.Errorf("%w: element %d is %s", ErrByteRange, i, v.String())
		}
		out[i] = byte(f)
	}
	*b = out
	return nil
}
