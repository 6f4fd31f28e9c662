package record

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Text returns the string form of a value for text search.
//
// Strings are returned as-is, numbers in shortest round-trip form, bools as
// "true"/"false", and lists as their elements joined with ",". Objects have
// no useful text form. Null and nil return false.
func Text(v Value) (string, bool) {
	switch val := v.(type) {
	case String:
		return string(val), true
	case Number:
		return formatNumber(float64(val)), true
	case Bool:
		return strconv.FormatBool(bool(val)), true
	case List:
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			s, ok := Text(elem)
			if !ok {
				s = ""
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToNumber coerces a value to a finite number.
//
// Numbers convert directly, strings are parsed after trimming whitespace,
// and bools become 1 or 0. Empty strings, non-numeric strings, non-finite
// results, null, lists and objects all fail.
func ToNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case Number:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case String:
		return ParseNumber(string(val))
	case Bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ParseNumber parses a trimmed decimal string into a finite float64.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Truthy applies JavaScript-style boolean coercion, which is how the
// dashboard data was authored: empty strings, zero, NaN and null are false;
// lists and objects are always true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Null:
		return false
	case String:
		return val != ""
	case Number:
		f := float64(val)
		return f != 0 && !math.IsNaN(f)
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// DateLayouts lists the accepted date formats, most specific first.
var DateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
}

// ParseTime parses a date string using DateLayouts.
// Strings without a zone are interpreted as UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToTime coerces a record value to a time. Strings are parsed with
// ParseTime; numbers are treated as Unix milliseconds, which is how
// browser timestamps were stored.
func ToTime(v Value) (time.Time, bool) {
	switch val := v.(type) {
	case String:
		return ParseTime(string(val))
	case Number:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)).UTC(), true
	default:
		return time.Time{}, false
	}
}
