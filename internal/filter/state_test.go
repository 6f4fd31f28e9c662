package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDescriptors() []Descriptor {
	return []Descriptor{
		{Key: "q", Label: "بحث", Kind: KindSearch, SearchFields: []string{"title", "location.city"}},
		{Key: "severity", Label: "الخطورة", Kind: KindSelect, Options: []Option{
			{Value: "fatal", Label: "مميت"},
			{Value: "serious", Label: "خطير"},
			{Value: "moderate", Label: "متوسط"},
			{Value: "minor", Label: "بسيط"},
		}},
		{Key: "tags", Label: "Tags", Kind: KindMultiselect, Options: []Option{
			{Value: "night", Label: "ليلي"},
			{Value: "speed", Label: "سرعة"},
		}},
		{Key: "date", Label: "التاريخ", Kind: KindDateRange},
		{Key: "fatalities", Label: "الوفيات", Kind: KindRange, Default: Text("0-100")},
		{Key: "lighting", Label: "إنارة", Kind: KindBoolean},
	}
}

func TestInitialize(t *testing.T) {
	state := Initialize(sampleDescriptors())

	assert.Equal(t, State{
		"q":          Text(""),
		"severity":   Text(""),
		"tags":       Choices{},
		"date":       Text(""),
		"fatalities": Text("0-100"),
		"lighting":   Text(""),
	}, state)
}

func TestInitialize_Empty(t *testing.T) {
	state := Initialize(nil)
	assert.NotNil(t, state)
	assert.Empty(t, state)
}

func TestUpdateField_ReturnsCopy(t *testing.T) {
	state := Initialize(sampleDescriptors())
	next := UpdateField(state, "severity", Text("fatal"))

	assert.Equal(t, Text("fatal"), next["severity"])
	assert.Equal(t, Text(""), state["severity"], "original state must not change")
}

func TestUpdateField_DoesNotValidateKind(t *testing.T) {
	state := UpdateField(Initialize(sampleDescriptors()), "severity", Choices{"a", "b"})
	assert.Equal(t, Choices{"a", "b"}, state["severity"])

	state = UpdateField(state, "unknown", Text("x"))
	assert.Equal(t, Text("x"), state["unknown"])
}

func TestResetField(t *testing.T) {
	descs := sampleDescriptors()
	state := UpdateField(Initialize(descs), "fatalities", Text("3-5"))
	state = UpdateField(state, "q", Text("road"))

	reset := ResetField(state, descs, "fatalities")
	assert.Equal(t, Text("0-100"), reset["fatalities"])
	assert.Equal(t, Text("road"), reset["q"])
	assert.Equal(t, Text("3-5"), state["fatalities"], "original state must not change")
}

func TestResetField_UnknownKey(t *testing.T) {
	descs := sampleDescriptors()
	state := UpdateField(Initialize(descs), "q", Text("road"))

	reset := ResetField(state, descs, "nope")
	assert.Equal(t, state, reset)
	_, exists := reset["nope"]
	assert.False(t, exists)
}

func TestResetAll(t *testing.T) {
	descs := sampleDescriptors()
	state := Initialize(descs)
	state = UpdateField(state, "q", Text("road"))
	state = UpdateField(state, "tags", Choices{"night"})
	state = UpdateField(state, "stale", Text("x"))

	assert.Equal(t, Initialize(descs), ResetAll(state, descs))
}

func TestFind_LastDuplicateWins(t *testing.T) {
	descs := []Descriptor{
		{Key: "k", Kind: KindText, Default: Text("first")},
		{Key: "k", Kind: KindText, Default: Text("second")},
	}

	d, ok := Find(descs, "k")
	require.True(t, ok)
	assert.Equal(t, Text("second"), d.Default)
	assert.Equal(t, Text("second"), Initialize(descs)["k"])
}

func TestDescriptorHelpers(t *testing.T) {
	d := sampleDescriptors()[1]

	label, ok := d.OptionLabel("serious")
	assert.True(t, ok)
	assert.Equal(t, "خطير", label)

	_, ok = d.OptionLabel("unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"severity"}, d.Fields())
	assert.Equal(t, []string{"title", "location.city"}, sampleDescriptors()[0].Fields())
}

func TestKind(t *testing.T) {
	for _, k := range kinds() {
		assert.True(t, k.Valid(), k)
	}
	assert.Len(t, kinds(), 10)
	assert.False(t, Kind("geo").Valid())
	assert.False(t, Kind("").Valid())
	assert.True(t, KindMultiselect.HasOptions())
	assert.False(t, KindRange.HasOptions())
}
