package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtLeastAtMost(t *testing.T) {
	recs := accidents(t)
	least := []Descriptor{{Key: "minFatal", Kind: KindCustom, Custom: AtLeast("fatalities")}}
	most := []Descriptor{{Key: "maxFatal", Kind: KindCustom, Custom: AtMost("fatalities")}}

	assert.Equal(t, []float64{1, 3}, ids(Apply(recs, least, State{"minFatal": Text("1")})))
	assert.Equal(t, []float64{2, 3}, ids(Apply(recs, most, State{"maxFatal": Text("1")})))
	assert.Empty(t, Apply(recs, least, State{"minFatal": Text("many")}), "custom predicates decide for themselves")
}

func TestNonEmpty(t *testing.T) {
	recs := accidents(t)
	descs := []Descriptor{{Key: "tagged", Kind: KindCustom, Custom: NonEmpty("tags")}}

	assert.Equal(t, []float64{1, 2, 4}, ids(Apply(recs, descs, State{"tagged": Text("true")})))
	assert.Equal(t, []float64{3}, ids(Apply(recs, descs, State{"tagged": Flag(false)})))
}
