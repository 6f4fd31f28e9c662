package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImprovement(t *testing.T) {
	tests := []struct {
		name           string
		before, after  float64
		higherIsBetter bool
		want           float64
	}{
		{"accidents fall", 45, 18, false, 60},
		{"fatalities fall", 8, 2, false, 75},
		{"violations rise", 100, 120, false, -20},
		{"satisfaction rises", 45, 82, true, 82.2222},
		{"speed falls", 85, 65, true, -23.5294},
		{"zero baseline", 0, 10, false, 0},
		{"zero baseline reversed", 0, 10, true, 0},
		{"unchanged", 12, 12, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Improvement(tt.before, tt.after, tt.higherIsBetter), 1e-4)
		})
	}
}

func TestCostSaving(t *testing.T) {
	assert.InDelta(t, 6.0, CostSaving(2_500_000, 2_350_000), 1e-9)
	assert.InDelta(t, -10.0, CostSaving(100, 110), 1e-9)
	assert.Zero(t, CostSaving(0, 500))
}

func TestMetrics(t *testing.T) {
	assert.Len(t, metrics, 9)
	assert.Equal(t, "accidents", metrics[0].Key)

	var reversed []string
	for _, m := range metrics {
		if m.HigherIsBetter {
			reversed = append(reversed, m.Key)
		}
	}
	assert.Equal(t, []string{"trafficFlow", "averageSpeed", "satisfactionRate"}, reversed)
}

func TestAxisNormalize(t *testing.T) {
	safety := performanceAxes[0]
	assert.InDelta(t, 55.0, safety.normalize(45), 1e-9)
	assert.Zero(t, safety.normalize(140))

	flow := performanceAxes[1]
	assert.InDelta(t, 75.0, flow.normalize(15000), 1e-9)
	assert.Equal(t, 100.0, flow.normalize(25000))
}
