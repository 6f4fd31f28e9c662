package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/roadwatch/internal/filter"
)

// FilterSet is a named, ordered list of filter descriptors.
type FilterSet struct {
	Name        string
	Label       string
	Description string
	Filters     []filter.Descriptor

	// Positions holds the CUE source position of each filter, parallel to
	// Filters. Positions are invalid for sets compiled from strings without
	// a filename.
	Positions []token.Pos
}

// Descriptor returns the filter with the given key.
func (fs *FilterSet) Descriptor(key string) (filter.Descriptor, bool) {
	return filter.Find(fs.Filters, key)
}

// CompileFilterSet parses a CUE value into a FilterSet.
//
// The CUE value should be the filter set struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`filterset: accidents: { ... }`)
//	fs, err := CompileFilterSet(v.LookupPath(cue.ParsePath("filterset.accidents")), nil)
//
// Custom filters are resolved through reg; a nil reg means NewRegistry().
func CompileFilterSet(v cue.Value, reg *Registry) (*FilterSet, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if reg == nil {
		reg = NewRegistry()
	}

	fs := &FilterSet{}

	// Name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		fs.Name = labels[len(labels)-1].String()
	}

	label, err := lookupString(v, "label")
	if err != nil {
		return nil, err
	}
	if label == "" {
		return nil, &CompileError{
			Field:   "label",
			Message: "label is required",
			Pos:     v.Pos(),
		}
	}
	fs.Label = label

	if fs.Description, err = lookupString(v, "description"); err != nil {
		return nil, err
	}

	filtersVal := v.LookupPath(cue.ParsePath("filters"))
	if !filtersVal.Exists() {
		return nil, &CompileError{
			Field:   "filters",
			Message: "filters is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := filtersVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "filters",
			Message: "filters must be a list",
			Pos:     filtersVal.Pos(),
		}
	}

	for i := 0; iter.Next(); i++ {
		item := iter.Value()
		d, err := compileFilter(item, reg)
		if err != nil {
			var compileErr *CompileError
			if errors.As(err, &compileErr) {
				compileErr.Message = fmt.Sprintf("filter %d: %s", i, compileErr.Message)
			}
			return nil, err
		}
		fs.Filters = append(fs.Filters, d)
		fs.Positions = append(fs.Positions, item.Pos())
	}

	return fs, nil
}

func compileFilter(v cue.Value, reg *Registry) (filter.Descriptor, error) {
	if err := v.Err(); err != nil {
		return filter.Descriptor{}, formatCUEError(err)
	}

	var (
		d   filter.Descriptor
		err error
	)
	if d.Key, err = lookupString(v, "key"); err != nil {
		return d, err
	}
	if d.Label, err = lookupString(v, "label"); err != nil {
		return d, err
	}
	kind, err := lookupString(v, "type")
	if err != nil {
		return d, err
	}
	d.Kind = filter.Kind(kind)
	if d.Placeholder, err = lookupString(v, "placeholder"); err != nil {
		return d, err
	}
	if d.Description, err = lookupString(v, "description"); err != nil {
		return d, err
	}

	if d.Options, err = parseOptions(v); err != nil {
		return d, err
	}
	if d.SearchFields, err = lookupStrings(v, "searchFields"); err != nil {
		return d, err
	}
	if d.Default, err = parseDefault(v, d.Kind); err != nil {
		return d, err
	}
	if d.Custom, err = parsePredicate(v, reg); err != nil {
		return d, err
	}
	return d, nil
}

func parseOptions(v cue.Value) ([]filter.Option, error) {
	optsVal := v.LookupPath(cue.ParsePath("options"))
	if !optsVal.Exists() {
		return nil, nil
	}
	iter, err := optsVal.List()
	if err != nil {
		return nil, &CompileError{Field: "options", Message: "options must be a list", Pos: optsVal.Pos()}
	}

	var opts []filter.Option
	for iter.Next() {
		item := iter.Value()
		value, err := lookupString(item, "value")
		if err != nil {
			return nil, err
		}
		label, err := lookupString(item, "label")
		if err != nil {
			return nil, err
		}
		if label == "" {
			label = value
		}
		opts = append(opts, filter.Option{Value: value, Label: label})
	}
	return opts, nil
}

// parseDefault decodes the CUE default through JSON so numbers, lists and
// structs reach filter.ValueFromAny in their plain Go forms.
func parseDefault(v cue.Value, kind filter.Kind) (filter.Value, error) {
	defVal := v.LookupPath(cue.ParsePath("default"))
	if !defVal.Exists() || !kind.Valid() {
		return nil, nil
	}

	raw, err := defVal.MarshalJSON()
	if err != nil {
		return nil, &CompileError{Field: "default", Message: fmt.Sprintf("default must be concrete: %v", err), Pos: defVal.Pos()}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &CompileError{Field: "default", Message: err.Error(), Pos: defVal.Pos()}
	}
	value, err := filter.ValueFromAny(kind, decoded)
	if err != nil {
		return nil, &CompileError{Field: "default", Message: err.Error(), Pos: defVal.Pos()}
	}
	return value, nil
}

func parsePredicate(v cue.Value, reg *Registry) (filter.Predicate, error) {
	predVal := v.LookupPath(cue.ParsePath("predicate"))
	if !predVal.Exists() {
		return nil, nil
	}

	name, err := lookupString(predVal, "name")
	if err != nil {
		return nil, err
	}
	field, err := lookupString(predVal, "field")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &CompileError{Field: "predicate.name", Message: "predicate name is required", Pos: predVal.Pos()}
	}
	if field == "" {
		return nil, &CompileError{Field: "predicate.field", Message: "predicate field is required", Pos: predVal.Pos()}
	}

	pred, ok := reg.Resolve(name, field)
	if !ok {
		return nil, &CompileError{
			Field:   "predicate.name",
			Message: fmt.Sprintf("unknown predicate %q (registered: %v)", name, reg.Names()),
			Pos:     predVal.Pos(),
		}
	}
	return pred, nil
}

// lookupString returns the string at path, or "" when the field is absent.
func lookupString(v cue.Value, path string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", &CompileError{
			Field:   path,
			Message: fmt.Sprintf("%s must be a string", path),
			Pos:     fieldVal.Pos(),
		}
	}
	return s, nil
}

func lookupStrings(v cue.Value, path string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(path))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, &CompileError{Field: path, Message: fmt.Sprintf("%s must be a list of strings", path), Pos: listVal.Pos()}
	}

	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{Field: path, Message: fmt.Sprintf("%s must be a list of strings", path), Pos: iter.Value().Pos()}
		}
		out = append(out, s)
	}
	return out, nil
}
