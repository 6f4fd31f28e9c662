package catalog

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError represents a filter set compilation error with position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadError represents an error that occurred while loading a catalog.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load error codes, shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeSchema      = "E008" // Catalog does not match the schema
)

// Compile error codes for the fields of a filter set.
const (
	ErrCodeSetLabel    = "E101" // Missing filter set label
	ErrCodeSetFilters  = "E102" // Missing or malformed filters list
	ErrCodeFilterField = "E103" // Malformed filter field
	ErrCodeDefault     = "E104" // Default not representable for the kind
	ErrCodePredicate   = "E105" // Unknown or malformed predicate
)

// MapFieldToErrorCode maps a compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "label":
		return ErrCodeSetLabel
	case "filters":
		return ErrCodeSetFilters
	case "key", "type", "options", "searchFields", "placeholder", "description":
		return ErrCodeFilterField
	case "default":
		return ErrCodeDefault
	case "predicate", "predicate.name", "predicate.field":
		return ErrCodePredicate
	default:
		return ErrCodeGeneric
	}
}

// formatCUEError converts a CUE error into a CompileError carrying the
// position of the first underlying error.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
