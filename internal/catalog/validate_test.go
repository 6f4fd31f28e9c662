package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/roadwatch/internal/filter"
)

func TestValidate_Findings(t *testing.T) {
	fs := &FilterSet{
		Name: "roads",
		Filters: []filter.Descriptor{
			{Key: "a", Kind: filter.KindText},
			{Key: "a", Kind: filter.KindSelect},
			{Key: "", Kind: filter.KindCustom},
			{Key: "b", Kind: filter.Kind("slider")},
		},
	}

	errs := Validate(fs)
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Equal(t, []string{
		ErrFilterDuplicateKey,
		ErrFilterNoOptions,
		ErrFilterMissingKey,
		ErrFilterNoPredicate,
		ErrFilterInvalidKind,
	}, codes)

	assert.Equal(t, "roads.a", errs[0].Field)
	assert.False(t, errs[0].Warning)
	assert.True(t, errs[1].Warning)
	assert.Equal(t, "roads.filters[2]", errs[2].Field)
	assert.True(t, HasErrors(errs))
	assert.False(t, HasErrors(errs[1:2]))
}

func TestValidate_EmptySet(t *testing.T) {
	errs := Validate(&FilterSet{Name: "empty"})
	assert.Len(t, errs, 1)
	assert.Equal(t, ErrNoFilters, errs[0].Code)
	assert.Equal(t, "[E200] empty: filter set declares no filters", errs[0].Error())
}

func TestValidationError_WithLine(t *testing.T) {
	err := ValidationError{Field: "roads.a", Message: "m", Code: ErrFilterNoOptions, Line: 7}
	assert.Equal(t, "[E205] line 7: roads.a: m", err.Error())
}
