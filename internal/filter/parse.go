package filter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/roach88/roadwatch/internal/record"
)

// dateRangeSeparator splits the two bounds of a legacy date range string.
const dateRangeSeparator = " - "

// ParseRange parses the legacy "min-max" encoding.
//
// The separator is the first '-' that is neither the leading sign of min nor
// part of an exponent, so "-5--1" and "1e-3-2" parse as expected. An empty
// side yields a nil bound (an incomplete range) rather than an error.
func ParseRange(raw string) (Range, error) {
	loRaw, hiRaw, found := splitRange(raw)
	if !found {
		return Range{}, &ValueError{Kind: KindRange, Raw: raw, Reason: "missing '-' separator"}
	}

	lo, err := parseBound(loRaw)
	if err != nil {
		return Range{}, &ValueError{Kind: KindRange, Raw: raw, Reason: "min: " + err.Error()}
	}
	hi, err := parseBound(hiRaw)
	if err != nil {
		return Range{}, &ValueError{Kind: KindRange, Raw: raw, Reason: "max: " + err.Error()}
	}
	return Range{Min: lo, Max: hi}, nil
}

// splitRange cuts raw at the range separator.
func splitRange(raw string) (lo, hi string, found bool) {
	s := strings.TrimSpace(raw)
	sep := rangeSeparator(s)
	if sep < 0 {
		return "", "", false
	}
	return s[:sep], s[sep+1:], true
}

func rangeSeparator(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		if prev := s[i-1]; prev == 'e' || prev == 'E' {
			continue
		}
		return i
	}
	return -1
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, ok := record.ParseNumber(s)
	if !ok {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &f, nil
}

// ParseDateRange parses the legacy "start - end" encoding. Either side may
// be empty, which yields an incomplete range.
func ParseDateRange(raw string) (DateRange, error) {
	startRaw, endRaw, found := strings.Cut(raw, dateRangeSeparator)
	if !found {
		return DateRange{}, &ValueError{Kind: KindDateRange, Raw: raw, Reason: "missing \" - \" separator"}
	}

	start, err := parseDateBound(startRaw)
	if err != nil {
		return DateRange{}, &ValueError{Kind: KindDateRange, Raw: raw, Reason: "start: " + err.Error()}
	}
	end, err := parseDateBound(endRaw)
	if err != nil {
		return DateRange{}, &ValueError{Kind: KindDateRange, Raw: raw, Reason: "end: " + err.Error()}
	}
	return DateRange{Start: start, End: end}, nil
}

func parseDateBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, ok := record.ParseTime(s)
	if !ok {
		return nil, fmt.Errorf("%q is not a date", s)
	}
	return &t, nil
}

// ParseDate parses a single day.
func ParseDate(raw string) (Date, error) {
	t, ok := record.ParseTime(raw)
	if !ok {
		return Date{}, &ValueError{Kind: KindDate, Raw: raw, Reason: "not a date"}
	}
	return Date{Day: t}, nil
}

// ParseFlag parses "true" or "false", ignoring case and surrounding space.
func ParseFlag(raw string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return Flag(true), nil
	case "false":
		return Flag(false), nil
	default:
		return false, &ValueError{Kind: KindBoolean, Raw: raw, Reason: "expected true or false"}
	}
}

// ParseValue converts command-line or scenario text into the value variant
// for kind. The empty string yields the kind's empty value.
//
// Multiselect input is a comma separated list. Number input is validated
// and kept as Text.
func ParseValue(kind Kind, raw string) (Value, error) {
	if !kind.Valid() {
		return nil, &ValueError{Kind: kind, Raw: raw, Reason: "unknown filter kind"}
	}
	if raw == "" {
		return EmptyValue(kind), nil
	}

	switch kind {
	case KindMultiselect:
		var out Choices
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		if out == nil {
			out = Choices{}
		}
		return out, nil
	case KindDate:
		return ParseDate(raw)
	case KindDateRange:
		return ParseDateRange(raw)
	case KindNumber:
		s := strings.TrimSpace(raw)
		if _, ok := record.ParseNumber(s); !ok {
			return nil, &ValueError{Kind: kind, Raw: raw, Reason: "not a number"}
		}
		return Text(s), nil
	case KindRange:
		return ParseRange(raw)
	case KindBoolean:
		return ParseFlag(raw)
	default:
		return Text(raw), nil
	}
}

// ValueFromAny converts a decoded YAML or JSON value into a filter value.
//
// Beyond strings it accepts lists (multiselect choices, or [min, max] and
// [start, end] pairs), maps with min/max or start/end keys, bools and
// numbers.
func ValueFromAny(kind Kind, v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return EmptyValue(kind), nil
	case Value:
		return val, nil
	case string:
		return ParseValue(kind, val)
	case time.Time:
		if kind == KindDate {
			return Date{Day: val}, nil
		}
		return ParseValue(kind, anyString(val))
	case bool:
		if kind == KindBoolean {
			return Flag(val), nil
		}
		return ParseValue(kind, fmt.Sprint(val))
	case int, int64, uint64, float64:
		f := toFloat(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &ValueError{Kind: kind, Raw: fmt.Sprint(val), Reason: "not a finite number"}
		}
		return ParseValue(kind, fmt.Sprint(val))
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return valueFromList(kind, items)
	case []any:
		return valueFromList(kind, val)
	case map[string]any:
		return valueFromMap(kind, val)
	default:
		return nil, &ValueError{Kind: kind, Raw: fmt.Sprint(v), Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return math.NaN()
}

func valueFromList(kind Kind, items []any) (Value, error) {
	switch kind {
	case KindRange:
		if len(items) != 2 {
			return nil, &ValueError{Kind: kind, Raw: fmt.Sprint(items), Reason: "range list needs [min, max]"}
		}
		return ParseRange(anyString(items[0]) + "-" + anyString(items[1]))
	case KindDateRange:
		if len(items) != 2 {
			return nil, &ValueError{Kind: kind, Raw: fmt.Sprint(items), Reason: "date range list needs [start, end]"}
		}
		return ParseDateRange(anyString(items[0]) + dateRangeSeparator + anyString(items[1]))
	default:
		out := make(Choices, 0, len(items))
		for _, item := range items {
			out = append(out, anyString(item))
		}
		return out, nil
	}
}

func valueFromMap(kind Kind, m map[string]any) (Value, error) {
	switch kind {
	case KindRange:
		return ParseRange(anyString(m["min"]) + "-" + anyString(m["max"]))
	case KindDateRange:
		return ParseDateRange(anyString(m["start"]) + dateRangeSeparator + anyString(m["end"]))
	default:
		return nil, &ValueError{Kind: kind, Raw: fmt.Sprint(m), Reason: "maps are only valid for range and dateRange"}
	}
}

func anyString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return formatTime(val)
	default:
		return fmt.Sprint(val)
	}
}

// EmptyValue returns the kind-appropriate empty value: an empty selection
// for multiselect, the empty string otherwise.
func EmptyValue(kind Kind) Value {
	if kind == KindMultiselect {
		return Choices{}
	}
	return Text("")
}
