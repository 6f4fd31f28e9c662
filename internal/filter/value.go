package filter

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Value is a sealed interface for filter input.
// Only Text, Choices, Range, DateRange, Date, and Flag implement it.
//
// String returns the legacy UI encoding of the value.
type Value interface {
	filterValue() // Sealed - only these types implement it
	String() string
}

// Text is free-form input: a search term, a selected option value, or a
// legacy encoded composite value.
type Text string

func (Text) filterValue() {}

func (t Text) String() string { return string(t) }

// Choices is the selection of a multiselect filter.
type Choices []string

func (Choices) filterValue() {}

func (c Choices) String() string { return strings.Join(c, ", ") }

// Range is an inclusive numeric interval. A nil bound means the user has not
// filled that side yet; an incomplete range is inactive.
type Range struct {
	Min *float64
	Max *float64
}

func (Range) filterValue() {}

// NewRange returns a complete range.
func NewRange(lo, hi float64) Range {
	return Range{Min: &lo, Max: &hi}
}

// Complete reports whether both bounds are set.
func (r Range) Complete() bool {
	return r.Min != nil && r.Max != nil
}

// Contains reports whether lo <= n <= hi. Incomplete ranges contain nothing.
func (r Range) Contains(n float64) bool {
	return r.Complete() && n >= *r.Min && n <= *r.Max
}

func (r Range) String() string {
	return formatBound(r.Min) + "-" + formatBound(r.Max)
}

func formatBound(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// DateRange is an inclusive interval of instants.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (DateRange) filterValue() {}

// NewDateRange returns a complete date range.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: &start, End: &end}
}

// Complete reports whether both bounds are set.
func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Contains reports whether start <= t <= end.
func (r DateRange) Contains(t time.Time) bool {
	return r.Complete() && !t.Before(*r.Start) && !t.After(*r.End)
}

func (r DateRange) String() string {
	return formatTimePtr(r.Start) + " - " + formatTimePtr(r.End)
}

// Date selects a single calendar day.
type Date struct {
	Day time.Time
}

func (Date) filterValue() {}

// On returns a Date filter value for the day of t.
func On(t time.Time) Date {
	return Date{Day: t}
}

func (d Date) String() string { return formatTime(d.Day) }

// SameDay reports whether t falls on the same calendar day. Each side is read
// in its own location, so "2024-03-05T01:00:00+03:00" is the 5th.
func (d Date) SameDay(t time.Time) bool {
	y1, m1, d1 := d.Day.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Flag is a boolean filter value.
type Flag bool

func (Flag) filterValue() {}

func (f Flag) String() string { return strconv.FormatBool(bool(f)) }

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// formatTime prints midnight UTC as a bare date and everything else as
// RFC 3339.
func formatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// Equal reports whether two filter values are the same variant with the
// same content. Time bounds compare as instants.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Choices:
		bv, ok := b.(Choices)
		return ok && slices.Equal(av, bv)
	case Range:
		bv, ok := b.(Range)
		return ok && floatPtrEqual(av.Min, bv.Min) && floatPtrEqual(av.Max, bv.Max)
	case DateRange:
		bv, ok := b.(DateRange)
		return ok && timePtrEqual(av.Start, bv.Start) && timePtrEqual(av.End, bv.End)
	case Date:
		bv, ok := b.(Date)
		return ok && av.Day.Equal(bv.Day)
	case Flag:
		bv, ok := b.(Flag)
		return ok && av == bv
	default:
		return false
	}
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Encode converts a value to its plain JSON form: Choices become a string
// list, every other variant its legacy string encoding.
func Encode(v Value) any {
	switch val := v.(type) {
	case nil:
		return ""
	case Choices:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v.String()
	}
}
