package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
)

//go:embed schema.cue
var schemaSource string

// Schema compiles the catalog schema in ctx.
func Schema(ctx *cue.Context) cue.Value {
	return ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
}

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the filter sets loaded from a catalog directory.
type LoadResult struct {
	FilterSets []FilterSet
	CUEValue   cue.Value // The raw CUE value for additional processing
	FileCount  int       // Number of CUE files found
}

// FilterSet returns the loaded filter set with the given name.
func (r *LoadResult) FilterSet(name string) (*FilterSet, bool) {
	for i := range r.FilterSets {
		if r.FilterSets[i].Name == name {
			return &r.FilterSets[i], true
		}
	}
	return nil, false
}

// Load loads and compiles the CUE catalog in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func Load(dir string, mode LoadMode, reg *Registry) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	value = value.Unify(Schema(ctx))
	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}
	if err := value.Validate(); err != nil {
		errs := schemaErrors(err)
		if mode == LoadModeFailFast {
			errs = errs[:1]
		}
		return result, errs
	}

	var errs []error
	setsVal := value.LookupPath(cue.ParsePath("filterset"))
	if !setsVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: "no filter sets found in catalog"}}
	}
	iter, err := setsVal.Fields()
	if err != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating filter sets: %v", err)}}
	}
	for iter.Next() {
		fs, compileErr := CompileFilterSet(iter.Value(), reg)
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, "filterset."+iter.Selector().String()))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.FilterSets = append(result.FilterSets, *fs)
	}

	if len(result.FilterSets) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no filter sets found in catalog"})
	}
	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// schemaErrors converts every underlying CUE error into a LoadError.
func schemaErrors(err error) []error {
	var errs []error
	for _, e := range cueerrors.Errors(err) {
		loadErr := &LoadError{Code: ErrCodeSchema, Message: e.Error()}
		if positions := cueerrors.Positions(e); len(positions) > 0 {
			loadErr.Pos = positions[0]
		}
		errs = append(errs, loadErr)
	}
	if len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeSchema, Message: err.Error()})
	}
	return errs
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", context, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}
