package transformer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// ParseInt accepts base-10 64-bit integers with an optional sign.
func ParseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

// ParseReal accepts anything strconv.ParseFloat does, including "nan" and
// "inf" spellings.
func ParseReal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// ParseBool accepts true/false in lower, title or upper case only; 0/1 and
// t/f stay numeric or text.
func ParseBool(s string) (bool, bool) {
	switch s {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}

// ParseTimestamp parses s in any layout dateparse recognizes. Values
// without a zone are taken as UTC and the result is always UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
