package filter

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes filter problems. None of them are fatal to Apply;
// they surface through Validate, the parse helpers, and the CLI.
type ErrorCode string

const (
	// ErrCodeInvalidDescriptor indicates a descriptor names an unknown kind.
	ErrCodeInvalidDescriptor ErrorCode = "InvalidDescriptor"

	// ErrCodeUnparseableValue indicates a date or number could not be parsed.
	ErrCodeUnparseableValue ErrorCode = "UnparseableValue"

	// ErrCodeMissingCustomPredicate indicates a custom descriptor has no predicate.
	ErrCodeMissingCustomPredicate ErrorCode = "MissingCustomPredicate"

	// ErrCodeDuplicateKey indicates two descriptors share a key.
	ErrCodeDuplicateKey ErrorCode = "DuplicateKey"

	// ErrCodeMissingKey indicates a descriptor has an empty key.
	ErrCodeMissingKey ErrorCode = "MissingKey"

	// ErrCodeMissingOptions indicates a select or multiselect has no options.
	ErrCodeMissingOptions ErrorCode = "MissingOptions"
)

// DescriptorError describes a problem with one descriptor.
type DescriptorError struct {
	Code    ErrorCode
	Key     string
	Index   int
	Message string
}

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s (index=%d)", e.Code, e.Message, e.Index)
}

// ValueError reports input that could not be parsed as a filter value.
type ValueError struct {
	Kind   Kind
	Raw    string
	Reason string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: cannot parse %q as %s: %s", ErrCodeUnparseableValue, e.Raw, e.Kind, e.Reason)
}

// Code returns ErrCodeUnparseableValue.
func (e *ValueError) Code() ErrorCode {
	return ErrCodeUnparseableValue
}

// IsInvalidDescriptor returns true if err is a DescriptorError for an unknown kind.
// Uses errors.As to handle wrapped errors.
func IsInvalidDescriptor(err error) bool {
	var de *DescriptorError
	if errors.As(err, &de) {
		return de.Code == ErrCodeInvalidDescriptor
	}
	return false
}

// IsMissingPredicate returns true if err is a DescriptorError for a custom
// filter without a predicate.
func IsMissingPredicate(err error) bool {
	var de *DescriptorError
	if errors.As(err, &de) {
		return de.Code == ErrCodeMissingCustomPredicate
	}
	return false
}

// IsUnparseable returns true if err is a ValueError.
func IsUnparseable(err error) bool {
	var ve *ValueError
	return errors.As(err, &ve)
}
