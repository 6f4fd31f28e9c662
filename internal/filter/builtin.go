package filter

import "github.com/roach88/roadwatch/internal/record"

// AtLeast matches records whose numeric field at path is >= the filter value.
// Records without a numeric value at path never match.
func AtLeast(path string) Predicate {
	return PredicateFunc(func(rec record.Object, value Value) bool {
		return compareNumber(rec, path, value, func(got, want float64) bool { return got >= want })
	})
}

// AtMost matches records whose numeric field at path is <= the filter value.
func AtMost(path string) Predicate {
	return PredicateFunc(func(rec record.Object, value Value) bool {
		return compareNumber(rec, path, value, func(got, want float64) bool { return got <= want })
	})
}

// NonEmpty matches on whether the field at path holds a truthy value. A
// filter value of "false" selects the records where it does not.
func NonEmpty(path string) Predicate {
	return PredicateFunc(func(rec record.Object, value Value) bool {
		want := true
		if f, ok := asFlag(value); ok {
			want = bool(f)
		}
		got, found := record.Lookup(rec, path)
		has := found && record.Truthy(got)
		return has == want
	})
}

func compareNumber(rec record.Object, path string, value Value, cmp func(got, want float64) bool) bool {
	want, ok := record.ParseNumber(value.String())
	if !ok {
		return false
	}
	got, found := record.Lookup(rec, path)
	if !record.Present(got, found) {
		return false
	}
	n, ok := record.ToNumber(got)
	return ok && cmp(n, want)
}
