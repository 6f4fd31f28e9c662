package filter

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/roadwatch/internal/record"
)

// matchFunc tests one record against one active filter.
type matchFunc func(rec record.Object) bool

// Apply returns the records that satisfy every active filter in state.
//
// Descriptors are combined with logical AND, so their order does not change
// the result. Inactive filters (see IsActive) contribute nothing. The
// returned slice is always new and records keep their input order; the input
// slice is never modified.
func Apply(records []record.Object, descs []Descriptor, state State) []record.Object {
	matchers := make([]matchFunc, 0, len(descs))
	for _, d := range descs {
		if m, ok := compile(d, state[d.Key]); ok {
			matchers = append(matchers, m)
		}
	}

	out := make([]record.Object, 0, len(records))
	for _, rec := range records {
		if matchAll(rec, matchers) {
			out = append(out, rec)
		}
	}
	return out
}

func matchAll(rec record.Object, matchers []matchFunc) bool {
	for _, m := range matchers {
		if !m(rec) {
			return false
		}
	}
	return true
}

// Matches reports whether a single record satisfies the filter described by
// d under value. Inactive filters match every record.
func Matches(rec record.Object, d Descriptor, value Value) bool {
	m, ok := compile(d, value)
	return !ok || m(rec)
}

// IsActive reports whether value constrains records under d.
//
// A value is inactive when it is nil, "" or "all", equal to the descriptor's
// default, an empty selection, a range or date range with a missing bound,
// or a date or date range that cannot be parsed. Descriptors with an unknown
// kind, and custom descriptors without a predicate, are never active.
//
// A number or range value that is not numeric stays active and matches no
// record. Boolean text other than "true" filters for false.
func IsActive(d Descriptor, value Value) bool {
	_, ok := compile(d, value)
	return ok
}

// compile resolves value against d and returns the record test. The boolean
// is false when the filter is inactive.
func compile(d Descriptor, v Value) (matchFunc, bool) {
	c, ok := resolve(d, v)
	if !ok {
		return nil, false
	}
	return c.matcher(), true
}

// isBlank reports the sentinels that mean "no filter" for every kind.
func isBlank(v Value) bool {
	switch val := v.(type) {
	case nil:
		return true
	case Text:
		return val == "" || val == "all"
	case Choices:
		return len(val) == 0
	}
	return false
}

// isDefault compares against the descriptor default both structurally and by
// legacy encoding, so Text("10-20") equals a Range default of 10-20.
func isDefault(d Descriptor, v Value) bool {
	if d.Default == nil {
		return false
	}
	return Equal(v, d.Default) || v.String() == d.Default.String()
}

func textMatcher(fields []string, needle string) matchFunc {
	fold := cases.Fold()
	want := fold.String(norm.NFC.String(needle))
	return func(rec record.Object) bool {
		for _, field := range fields {
			got, found := record.Lookup(rec, field)
			if !record.Present(got, found) {
				continue
			}
			s, ok := record.Text(got)
			if !ok {
				continue
			}
			if strings.Contains(fold.String(norm.NFC.String(s)), want) {
				return true
			}
		}
		return false
	}
}

func anySelected(rec record.Object, key string, choices Choices) bool {
	got, _ := record.Lookup(rec, key)
	switch val := got.(type) {
	case record.List:
		for _, elem := range val {
			if s, ok := elem.(record.String); ok && slices.Contains(choices, string(s)) {
				return true
			}
		}
		return false
	case record.String:
		return slices.Contains(choices, string(val))
	default:
		return false
	}
}

func recordTime(rec record.Object, key string) (time.Time, bool) {
	got, found := record.Lookup(rec, key)
	if !record.Present(got, found) {
		return time.Time{}, false
	}
	return record.ToTime(got)
}

func recordNumber(rec record.Object, key string) (float64, bool) {
	got, found := record.Lookup(rec, key)
	if !record.Present(got, found) {
		return 0, false
	}
	return record.ToNumber(got)
}

func asText(v Value) (string, bool) {
	switch val := v.(type) {
	case Text:
		return string(val), true
	case Choices:
		if len(val) == 1 {
			return val[0], true
		}
		return "", false
	default:
		return v.String(), true
	}
}

func asChoices(v Value) Choices {
	switch val := v.(type) {
	case Choices:
		return val
	case Text:
		return Choices{string(val)}
	default:
		return Choices{v.String()}
	}
}

func asDate(v Value) (Date, bool) {
	switch val := v.(type) {
	case Date:
		return val, true
	case Text:
		d, err := ParseDate(string(val))
		return d, err == nil
	}
	return Date{}, false
}

func asDateRange(v Value) (DateRange, bool) {
	switch val := v.(type) {
	case DateRange:
		return val, true
	case Text:
		r, err := ParseDateRange(string(val))
		return r, err == nil
	}
	return DateRange{}, false
}

// resolveNumber coerces a number filter value. Text that is not numeric
// yields never; whitespace-only text is inactive.
func resolveNumber(v Value) (n float64, never, active bool) {
	t, ok := v.(Text)
	if !ok || strings.TrimSpace(string(t)) == "" {
		return 0, false, false
	}
	if n, ok := record.ParseNumber(string(t)); ok {
		return n, false, true
	}
	return 0, true, true
}

// resolveRange coerces a range filter value. A missing side leaves the
// filter inactive; two sides where either is not numeric yield never.
func resolveRange(v Value) (r Range, never, active bool) {
	switch val := v.(type) {
	case Range:
		return val, false, val.Complete()
	case Text:
		lo, hi, found := splitRange(string(val))
		if !found || strings.TrimSpace(lo) == "" || strings.TrimSpace(hi) == "" {
			return Range{}, false, false
		}
		r, err := ParseRange(string(val))
		if err != nil {
			return Range{}, true, true
		}
		return r, false, true
	}
	return Range{}, false, false
}

// asFlag coerces a boolean filter value. Text other than "true" is false,
// the way the dashboard compares filterValue === 'true'.
func asFlag(v Value) (Flag, bool) {
	switch val := v.(type) {
	case Flag:
		return val, true
	case Text:
		f, err := ParseFlag(string(val))
		if err != nil {
			return false, true
		}
		return f, true
	}
	return false, false
}
