package filter

import "slices"

// Kind selects the predicate a descriptor applies.
type Kind string

const (
	KindText        Kind = "text"
	KindSearch      Kind = "search"
	KindSelect      Kind = "select"
	KindMultiselect Kind = "multiselect"
	KindDate        Kind = "date"
	KindDateRange   Kind = "dateRange"
	KindNumber      Kind = "number"
	KindRange       Kind = "range"
	KindBoolean     Kind = "boolean"
	KindCustom      Kind = "custom"
)

// kinds returns every supported kind in declaration order.
func kinds() []Kind {
	return []Kind{
		KindText, KindSearch, KindSelect, KindMultiselect, KindDate,
		KindDateRange, KindNumber, KindRange, KindBoolean, KindCustom,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return slices.Contains(kinds(), k)
}

// HasOptions reports whether the kind picks from a list of options.
func (k Kind) HasOptions() bool {
	return k == KindSelect || k == KindMultiselect
}

func (k Kind) String() string {
	return string(k)
}
