package filter

import "fmt"

// Severity distinguishes issues that make a descriptor useless from those
// that only degrade it.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found by Validate.
type Issue struct {
	Code     ErrorCode
	Severity Severity
	Index    int
	Key      string
	Message  string
}

// Err returns the issue as a *DescriptorError.
func (i Issue) Err() error {
	return &DescriptorError{Code: i.Code, Key: i.Key, Index: i.Index, Message: i.Message}
}

// ValidationResult contains the findings of Validate.
type ValidationResult struct {
	// Valid is false when any issue has SeverityError.
	Valid bool

	// Issues lists every finding in descriptor order.
	Issues []Issue
}

// Errors returns the issues as errors.
func (r ValidationResult) Errors() []error {
	errs := make([]error, 0, len(r.Issues))
	for _, issue := range r.Issues {
		errs = append(errs, issue.Err())
	}
	return errs
}

// Validate checks a descriptor list for authoring mistakes.
//
// Findings never affect Apply: a descriptor with an unknown kind or a custom
// descriptor without a predicate is simply inactive there. Validate exists
// so catalogs and the CLI can report those mistakes instead of silently
// ignoring the filter.
//
// Validate is a pure function with no side effects.
func Validate(descs []Descriptor) ValidationResult {
	v := &validator{seen: make(map[string]int, len(descs))}
	for i, d := range descs {
		v.validateDescriptor(i, d)
	}

	valid := true
	for _, issue := range v.issues {
		if issue.Severity == SeverityError {
			valid = false
			break
		}
	}
	return ValidationResult{Valid: valid, Issues: v.issues}
}

// validator accumulates issues during traversal.
type validator struct {
	issues []Issue
	seen   map[string]int
}

func (v *validator) add(code ErrorCode, sev Severity, index int, key, format string, args ...any) {
	v.issues = append(v.issues, Issue{
		Code:     code,
		Severity: sev,
		Index:    index,
		Key:      key,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (v *validator) validateDescriptor(i int, d Descriptor) {
	if d.Key == "" {
		v.add(ErrCodeMissingKey, SeverityError, i, "", "descriptor %d has no key", i)
	} else if first, dup := v.seen[d.Key]; dup {
		v.add(ErrCodeDuplicateKey, SeverityError, i, d.Key, "key also used by descriptor %d", first)
	} else {
		v.seen[d.Key] = i
	}

	if !d.Kind.Valid() {
		v.add(ErrCodeInvalidDescriptor, SeverityError, i, d.Key, "unknown kind %q", string(d.Kind))
		return
	}

	if d.Kind == KindCustom && d.Custom == nil {
		v.add(ErrCodeMissingCustomPredicate, SeverityError, i, d.Key, "custom filter has no predicate")
	}

	if d.Kind.HasOptions() && len(d.Options) == 0 {
		v.add(ErrCodeMissingOptions, SeverityWarning, i, d.Key, "%s filter has no options", d.Kind)
	}

	if d.Default != nil {
		v.validateDefault(i, d)
	}
}

// validateDefault flags defaults that the kind cannot interpret. Such a
// default is still harmless to Apply.
func (v *validator) validateDefault(i int, d Descriptor) {
	if isBlank(d.Default) {
		return
	}
	if d.Kind == KindCustom {
		return
	}
	bare := d
	bare.Default = nil
	c, ok := resolve(bare, d.Default)
	if t, isText := d.Default.(Text); isText && ok {
		_, err := ParseValue(d.Kind, string(t))
		ok = err == nil
	}
	if !ok || c.Never {
		v.add(ErrCodeUnparseableValue, SeverityWarning, i, d.Key, "default %q is not a usable %s value", d.Default.String(), d.Kind)
	}
}
