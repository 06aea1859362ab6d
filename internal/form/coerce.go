// Package form turns operator input into store rows.
package form

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxCount keeps coerced values inside the store's integer columns.
const maxCount = math.MaxInt32

// Count coerces raw input to a non-negative integer: blank or non-numeric
// input is 0, fractions are floored and negatives become 0.
func Count(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	if f >= maxCount {
		return maxCount
	}
	return int(math.Floor(f))
}

// Notes trims free text; an empty result is nil so the stored note is cleared.
func Notes(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// Field is a raw input value. It accepts JSON strings, numbers and null so
// clients can post either what the operator typed or a parsed number.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
	default:
		*f = Field(b)
	}
	return nil
}

// Int applies Count to the field.
func (f Field) Int() int {
	return Count(string(f))
}

// FieldOf renders an optional stored count back into form text; nil is blank.
func FieldOf(v *int) Field {
	if v == nil {
		return ""
	}
	return Field(strconv.Itoa(*v))
}
