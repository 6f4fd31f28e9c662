package catalog

import (
	"fmt"

	"github.com/roach88/roadwatch/internal/filter"
)

// Validation error codes (E200-E299)
const (
	ErrNoFilters          = "E200" // filter set declares no filters
	ErrFilterMissingKey   = "E201" // filter key is empty
	ErrFilterDuplicateKey = "E202" // two filters share a key
	ErrFilterInvalidKind  = "E203" // unknown filter type
	ErrFilterNoPredicate  = "E204" // custom filter without predicate
	ErrFilterNoOptions    = "E205" // select/multiselect without options
	ErrFilterBadDefault   = "E206" // default unusable for its kind
)

// ValidationError represents a filter set validation finding.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
	Warning bool   `json:"warning,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var issueCodes = map[filter.ErrorCode]string{
	filter.ErrCodeMissingKey:             ErrFilterMissingKey,
	filter.ErrCodeDuplicateKey:           ErrFilterDuplicateKey,
	filter.ErrCodeInvalidDescriptor:      ErrFilterInvalidKind,
	filter.ErrCodeMissingCustomPredicate: ErrFilterNoPredicate,
	filter.ErrCodeMissingOptions:         ErrFilterNoOptions,
	filter.ErrCodeUnparseableValue:       ErrFilterBadDefault,
}

// Validate reports authoring problems in a compiled filter set.
// Returns all findings (does not fail-fast); warnings are marked.
func Validate(fs *FilterSet) []ValidationError {
	var errs []ValidationError
	if len(fs.Filters) == 0 {
		errs = append(errs, ValidationError{
			Field:   fs.Name,
			Message: "filter set declares no filters",
			Code:    ErrNoFilters,
		})
		return errs
	}

	for _, issue := range filter.Validate(fs.Filters).Issues {
		code, ok := issueCodes[issue.Code]
		if !ok {
			code = ErrCodeGeneric
		}
		ve := ValidationError{
			Field:   fmt.Sprintf("%s.filters[%d]", fs.Name, issue.Index),
			Message: issue.Message,
			Code:    code,
			Warning: issue.Severity == filter.SeverityWarning,
		}
		if issue.Key != "" {
			ve.Field = fmt.Sprintf("%s.%s", fs.Name, issue.Key)
		}
		if issue.Index < len(fs.Positions) && fs.Positions[issue.Index].IsValid() {
			ve.Line = fs.Positions[issue.Index].Line()
		}
		errs = append(errs, ve)
	}
	return errs
}

// HasErrors reports whether any finding is an error rather than a warning.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if !e.Warning {
			return true
		}
	}
	return false
}
