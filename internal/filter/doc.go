// Package filter implements the declarative filter engine behind the
// dashboard's filter panels.
//
// A filter set is a list of Descriptors. Each descriptor names a record
// field by dot path, a Kind that selects the predicate, and a default value
// that marks the filter as inactive. The current user input is a State: one
// Value per descriptor key.
//
// Core operations are pure functions over values:
//
//	Initialize(descs)                 -> State
//	Apply(records, descs, state)      -> []record.Object
//	UpdateField(state, key, value)    -> State
//	ResetField(state, descs, key)     -> State
//	ResetAll(state, descs)            -> State
//	ActiveFilters(state, descs)       -> []ActiveFilter
//
// None of them fail. Malformed input degrades to "this filter contributes
// nothing": an unknown kind, a custom filter without a predicate, a half
// filled range or an unparseable date are all inactive. IsActive is the one
// rule that decides this, and Apply and ActiveFilters both use it.
//
// Filter values are typed variants (Text, Choices, Range, DateRange, Date,
// Flag) instead of the encoded strings the dashboard used. The legacy
// encodings ("10-20", "2024-01-01 - 2024-01-31", "true") are still accepted
// inside a Text value and coerced to the kind's variant when applied.
//
// Panel wraps the pure functions for callers that want the reactive
// behaviour of the original filter panel: every mutation re-applies the
// filters and notifies a callback.
package filter
