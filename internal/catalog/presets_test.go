package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/record"
)

func TestPresets(t *testing.T) {
	sets, err := Presets(nil)
	require.NoError(t, err)
	require.Len(t, sets, 3)

	names := make([]string, len(sets))
	for i, fs := range sets {
		names[i] = fs.Name
		assert.NotEmpty(t, fs.Label, fs.Name)
		assert.Empty(t, Validate(&sets[i]), "preset %s validates clean", fs.Name)
	}
	assert.Equal(t, PresetNames(), names)
}

func TestPreset_GovernorateOptionsFromRegionTable(t *testing.T) {
	for _, name := range []string{"accidents", "blackspots"} {
		fs, err := Preset(name, nil)
		require.NoError(t, err)

		gov, ok := fs.Descriptor("governorate")
		require.True(t, ok, name)
		assert.Equal(t, filter.KindMultiselect, gov.Kind)
		require.Len(t, gov.Options, 8)
		assert.Equal(t, filter.Option{Value: "albaha", Label: "مدينة الباحة"}, gov.Options[0])
	}
}

func TestPreset_Unknown(t *testing.T) {
	_, err := Preset("cameras", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}

func TestPreset_AccidentsApply(t *testing.T) {
	fs, err := Preset("accidents", nil)
	require.NoError(t, err)

	recs, err := record.DecodeObjects([]byte(`[
		{"id": 11, "date": "2024-01-16", "location": "طريق المخواة - العقيق", "type": "تصادم", "severity": "متوسط", "fatalities": 0, "vehiclesInvolved": 2, "governorate": "almakhwah", "cause": "عدم ترك مسافة آمنة"},
		{"id": 12, "date": "2024-01-17", "location": "منحنى وادي الأحسبة", "type": "انقلاب", "severity": "خطير", "fatalities": 1, "vehiclesInvolved": 1, "governorate": "albaha", "cause": "السرعة الزائدة"},
		{"id": 14, "date": "2024-01-19", "location": "طريق بني حسن الجبلي", "type": "اصطدام بجسم ثابت", "severity": "خطير", "fatalities": 0, "vehiclesInvolved": 1, "governorate": "bani_hassan", "cause": "ضعف الإضاءة"}
	]`))
	require.NoError(t, err)

	state := filter.Initialize(fs.Filters)
	assert.Len(t, filter.Apply(recs, fs.Filters, state), 3)
	assert.Empty(t, filter.ActiveFilters(state, fs.Filters))

	state = filter.UpdateField(state, "severity", filter.Text("خطير"))
	assert.Len(t, filter.Apply(recs, fs.Filters, state), 2)

	state = filter.UpdateField(state, "minFatalities", filter.Text("1"))
	got := filter.Apply(recs, fs.Filters, state)
	require.Len(t, got, 1)
	assert.Equal(t, record.Number(12), got[0]["id"])

	state = filter.ResetAll(state, fs.Filters)
	state = filter.UpdateField(state, "governorate", filter.Choices{"albaha", "bani_hassan"})
	state = filter.UpdateField(state, "search", filter.Text("الإضاءة"))
	got = filter.Apply(recs, fs.Filters, state)
	require.Len(t, got, 1)
	assert.Equal(t, record.Number(14), got[0]["id"])

	active := filter.ActiveFilters(state, fs.Filters)
	require.Len(t, active, 2)
	assert.Equal(t, "مدينة الباحة, محافظة بني حسن", active[1].DisplayValue)
}
