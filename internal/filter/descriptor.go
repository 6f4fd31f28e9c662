package filter

import "github.com/roach88/roadwatch/internal/record"

// Option is one choice of a select or multiselect filter.
type Option struct {
	Value string
	Label string
}

// Predicate decides whether a record satisfies a custom filter.
//
// The predicate is resolved when the descriptor is built; the engine never
// looks it up by name while applying filters.
type Predicate interface {
	Match(rec record.Object, value Value) bool
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(rec record.Object, value Value) bool

// Match calls f(rec, value).
func (f PredicateFunc) Match(rec record.Object, value Value) bool {
	return f(rec, value)
}

// Descriptor describes one filterable field.
type Descriptor struct {
	// Key is the state key and, for most kinds, the dot path into a record.
	Key string

	// Label is the human-readable name shown in active filter chips.
	Label string

	Kind Kind

	// Options lists the choices of select and multiselect filters, in
	// display order.
	Options []Option

	// SearchFields lists the dot paths a text or search filter matches
	// against. Empty means []string{Key}.
	SearchFields []string

	// Default is the inactive value. Nil means the kind's empty value.
	Default Value

	// Custom is required for KindCustom and ignored otherwise.
	Custom Predicate

	Placeholder string
	Description string
}

// DefaultValue returns Default, or the kind's empty value when unset.
func (d Descriptor) DefaultValue() Value {
	if d.Default != nil {
		return d.Default
	}
	return EmptyValue(d.Kind)
}

// Fields returns the paths a text filter searches.
func (d Descriptor) Fields() []string {
	if len(d.SearchFields) > 0 {
		return d.SearchFields
	}
	return []string{d.Key}
}

// OptionLabel returns the label of the option with the given value.
func (d Descriptor) OptionLabel(value string) (string, bool) {
	for _, opt := range d.Options {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

// Find returns the descriptor with the given key. When keys repeat, the
// last descriptor wins, matching Initialize.
func Find(descs []Descriptor, key string) (Descriptor, bool) {
	for i := len(descs) - 1; i >= 0; i-- {
		if descs[i].Key == key {
			return descs[i], true
		}
	}
	return Descriptor{}, false
}
