package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed presets.cue
var presetsSource string

// Presets compiles the built-in filter sets of the dashboard (accidents,
// campaigns and blackspots) in declaration order.
func Presets(reg *Registry) ([]FilterSet, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(presetsSource, cue.Filename("presets.cue")).Unify(Schema(ctx))
	if err := value.Validate(); err != nil {
		return nil, fmt.Errorf("presets: %w", formatCUEError(err))
	}

	iter, err := value.LookupPath(cue.ParsePath("filterset")).Fields()
	if err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}
	var sets []FilterSet
	for iter.Next() {
		fs, err := CompileFilterSet(iter.Value(), reg)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", iter.Selector(), err)
		}
		sets = append(sets, *fs)
	}
	return sets, nil
}

// Preset compiles the built-in filter set with the given name.
func Preset(name string, reg *Registry) (*FilterSet, error) {
	sets, err := Presets(reg)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].Name == name {
			return &sets[i], nil
		}
	}
	return nil, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
}

// PresetNames lists the built-in filter set names.
func PresetNames() []string {
	return []string{"accidents", "campaigns", "blackspots"}
}
