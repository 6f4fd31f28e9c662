package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadwatch/internal/record"
)

func TestConditions_CoercesLegacyEncodings(t *testing.T) {
	descs := []Descriptor{
		{Key: "severity", Kind: KindSelect, Default: Text("all")},
		{Key: "fatalities", Kind: KindRange},
		{Key: "date", Kind: KindDateRange},
		{Key: "lighting", Kind: KindBoolean},
		{Key: "count", Kind: KindNumber},
		{Key: "tags", Kind: KindMultiselect},
	}
	state := Initialize(descs)
	state = UpdateField(state, "severity", Text("fatal"))
	state = UpdateField(state, "fatalities", Text("1-3"))
	state = UpdateField(state, "date", Text("2024-01-01 - 2024-01-31"))
	state = UpdateField(state, "lighting", Text("true"))
	state = UpdateField(state, "count", Text(" 2 "))

	conds := Conditions(descs, state)
	require.Len(t, conds, 5)
	assert.Equal(t, "fatal", conds[0].Text)
	assert.Equal(t, NewRange(1, 3), conds[1].Range)
	assert.True(t, conds[2].Dates.Complete())
	assert.Equal(t, Flag(true), conds[3].Flag)
	assert.Equal(t, 2.0, conds[4].Number)
}

func TestConditions_SkipsInactive(t *testing.T) {
	descs := []Descriptor{
		{Key: "fatalities", Kind: KindRange},
		{Key: "custom", Kind: KindCustom},
		{Key: "x", Kind: Kind("slider")},
	}
	state := State{"fatalities": Text("1-"), "custom": Text("3"), "x": Text("on")}
	assert.Empty(t, Conditions(descs, state))
}

func TestCondition_MatchAgreesWithApply(t *testing.T) {
	recs := accidents(t)
	descs := []Descriptor{
		{Key: "severity", Kind: KindMultiselect},
		{Key: "fatalities", Kind: KindRange},
	}
	state := State{"severity": Choices{"fatal", "minor"}, "fatalities": NewRange(1, 5)}

	conds := Conditions(descs, state)
	var matched []record.Object
	for _, rec := range recs {
		all := true
		for _, c := range conds {
			all = all && c.Match(rec)
		}
		if all {
			matched = append(matched, rec)
		}
	}
	assert.Equal(t, ids(Apply(recs, descs, state)), ids(matched))
	assert.Equal(t, []float64{1, 3}, ids(matched))
}
