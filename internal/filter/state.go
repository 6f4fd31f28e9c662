package filter

import "maps"

// State maps descriptor keys to their current value.
//
// State is treated as an immutable value: every operation in this package
// returns a new map and leaves its input untouched.
type State map[string]Value

// Clone returns a shallow copy. Values are never mutated in place, so
// sharing them is safe.
func (s State) Clone() State {
	out := make(State, len(s))
	maps.Copy(out, s)
	return out
}

// Initialize builds a state with one entry per descriptor, set to the
// descriptor's default value.
func Initialize(descs []Descriptor) State {
	state := make(State, len(descs))
	for _, d := range descs {
		state[d.Key] = d.DefaultValue()
	}
	return state
}

// UpdateField returns a copy of state with key set to value. The value is
// not checked against the descriptor's kind.
func UpdateField(state State, key string, value Value) State {
	next := state.Clone()
	next[key] = value
	return next
}

// ResetField returns a copy of state with key restored to its descriptor's
// default. A key with no descriptor leaves the copy unchanged.
func ResetField(state State, descs []Descriptor, key string) State {
	next := state.Clone()
	if d, ok := Find(descs, key); ok {
		next[key] = d.DefaultValue()
	}
	return next
}

// ResetAll is equivalent to Initialize(descs). The previous state is ignored.
func ResetAll(_ State, descs []Descriptor) State {
	return Initialize(descs)
}
