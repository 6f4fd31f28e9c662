package filter

import (
	"github.com/roach88/roadwatch/internal/record"
)

// Condition is an active filter with its value coerced to the variant its
// kind compares with. Only the field matching Descriptor.Kind is set.
//
// Never marks a number or range filter whose value is not numeric. Such a
// filter stays active and no record satisfies it.
//
// Apply matches records through Conditions; query compilers use them to
// push filters down to a database.
type Condition struct {
	Descriptor Descriptor

	Text    string    // text, search, select
	Choices Choices   // multiselect
	Date    Date      // date
	Dates   DateRange // dateRange, always complete
	Number  float64   // number
	Range   Range     // range, complete unless Never
	Flag    Flag      // boolean
	Value   Value     // custom, passed to the predicate as given
	Never   bool
}

// Conditions returns the active filters of state in descriptor order.
func Conditions(descs []Descriptor, state State) []Condition {
	out := make([]Condition, 0, len(descs))
	for _, d := range descs {
		if c, ok := resolve(d, state[d.Key]); ok {
			out = append(out, c)
		}
	}
	return out
}

// Match reports whether rec satisfies the condition.
func (c Condition) Match(rec record.Object) bool {
	return c.matcher()(rec)
}

// resolve coerces v for d. The boolean is false when the filter is inactive.
func resolve(d Descriptor, v Value) (Condition, bool) {
	c := Condition{Descriptor: d}
	if !d.Kind.Valid() || isBlank(v) || isDefault(d, v) {
		return c, false
	}

	var ok bool
	switch d.Kind {
	case KindText, KindSearch, KindSelect:
		c.Text, ok = asText(v)
	case KindMultiselect:
		c.Choices = asChoices(v)
		ok = len(c.Choices) > 0
	case KindDate:
		c.Date, ok = asDate(v)
	case KindDateRange:
		c.Dates, ok = asDateRange(v)
		ok = ok && c.Dates.Complete()
	case KindNumber:
		c.Number, c.Never, ok = resolveNumber(v)
	case KindRange:
		c.Range, c.Never, ok = resolveRange(v)
	case KindBoolean:
		c.Flag, ok = asFlag(v)
	case KindCustom:
		c.Value = v
		ok = d.Custom != nil
	}
	return c, ok
}

func (c Condition) matcher() matchFunc {
	if c.Never {
		return func(record.Object) bool { return false }
	}
	d := c.Descriptor
	switch d.Kind {
	case KindText, KindSearch:
		return textMatcher(d.Fields(), c.Text)

	case KindSelect:
		return func(rec record.Object) bool {
			got, _ := record.Lookup(rec, d.Key)
			s, isString := got.(record.String)
			return isString && string(s) == c.Text
		}

	case KindMultiselect:
		return func(rec record.Object) bool {
			return anySelected(rec, d.Key, c.Choices)
		}

	case KindDate:
		return func(rec record.Object) bool {
			t, ok := recordTime(rec, d.Key)
			return ok && c.Date.SameDay(t)
		}

	case KindDateRange:
		return func(rec record.Object) bool {
			t, ok := recordTime(rec, d.Key)
			return ok && c.Dates.Contains(t)
		}

	case KindNumber:
		return func(rec record.Object) bool {
			n, ok := recordNumber(rec, d.Key)
			return ok && n == c.Number
		}

	case KindRange:
		return func(rec record.Object) bool {
			n, ok := recordNumber(rec, d.Key)
			return ok && c.Range.Contains(n)
		}

	case KindBoolean:
		return func(rec record.Object) bool {
			got, found := record.Lookup(rec, d.Key)
			return record.Present(got, found) && record.Truthy(got) == bool(c.Flag)
		}

	case KindCustom:
		return func(rec record.Object) bool {
			return d.Custom.Match(rec, c.Value)
		}
	}
	return func(record.Object) bool { return true }
}
