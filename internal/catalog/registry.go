package catalog

import (
	"slices"

	"github.com/roach88/roadwatch/internal/filter"
)

// PredicateFactory builds a custom predicate reading the given record field.
type PredicateFactory func(field string) filter.Predicate

// Registry maps predicate names used in catalogs to their Go
// implementations.
type Registry struct {
	factories map[string]PredicateFactory
}

// NewRegistry returns a registry holding the built-in predicates atLeast,
// atMost and nonEmpty.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]PredicateFactory)}
	r.Register("atLeast", filter.AtLeast)
	r.Register("atMost", filter.AtMost)
	r.Register("nonEmpty", filter.NonEmpty)
	return r
}

// Register adds or replaces a predicate factory.
func (r *Registry) Register(name string, factory PredicateFactory) {
	r.factories[name] = factory
}

// Resolve builds the named predicate for field.
func (r *Registry) Resolve(name, field string) (filter.Predicate, bool) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return factory(field), true
}

// Names returns the registered predicate names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
