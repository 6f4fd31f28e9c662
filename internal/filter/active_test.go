package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveFilters_FreshStateIsEmpty(t *testing.T) {
	descs := sampleDescriptors()
	assert.Empty(t, ActiveFilters(Initialize(descs), descs))
}

func TestActiveFilters_OneField(t *testing.T) {
	descs := sampleDescriptors()
	state := UpdateField(Initialize(descs), "severity", Text("serious"))

	active := ActiveFilters(state, descs)
	require.Len(t, active, 1)
	assert.Equal(t, "severity", active[0].Key)
	assert.Equal(t, "الخطورة", active[0].Label)
	assert.Equal(t, "خطير", active[0].DisplayValue)
	assert.Equal(t, Text("serious"), active[0].Value)
}

func TestActiveFilters_LabelFallbacks(t *testing.T) {
	descs := sampleDescriptors()
	state := Initialize(descs)
	state = UpdateField(state, "severity", Text("unlisted"))
	state = UpdateField(state, "tags", Choices{"speed", "fog", "night"})

	active := ActiveFilters(state, descs)
	require.Len(t, active, 2)
	assert.Equal(t, "unlisted", active[0].DisplayValue)
	assert.Equal(t, "سرعة, fog, ليلي", active[1].DisplayValue)
}

func TestActiveFilters_DescriptorOrderAndSkips(t *testing.T) {
	descs := sampleDescriptors()
	state := Initialize(descs)
	state = UpdateField(state, "lighting", Text("true"))
	state = UpdateField(state, "q", Text("road"))
	state = UpdateField(state, "date", Text("2024-01-01 - "))
	state = UpdateField(state, "fatalities", Text("0-100"))
	state = UpdateField(state, "orphan", Text("x"))

	active := ActiveFilters(state, descs)
	require.Len(t, active, 2)
	assert.Equal(t, "q", active[0].Key)
	assert.Equal(t, "road", active[0].DisplayValue)
	assert.Equal(t, "lighting", active[1].Key)
}

func TestActiveFilters_UsesKeyWhenLabelMissing(t *testing.T) {
	descs := []Descriptor{{Key: "location.city", Kind: KindText}}
	active := ActiveFilters(State{"location.city": Text("x")}, descs)

	require.Len(t, active, 1)
	assert.Equal(t, "location.city", active[0].Label)
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "10-20", DisplayValue(Descriptor{Kind: KindRange}, NewRange(10, 20)))
	assert.Equal(t, "", DisplayValue(Descriptor{Kind: KindText}, nil))
	assert.Equal(t, "true", DisplayValue(Descriptor{Kind: KindBoolean}, Flag(true)))
}
