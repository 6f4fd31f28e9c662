package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/roadwatch/internal/catalog"
	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/record"
)

const accidentsDataset = "../dataset/testdata/accidents.json"

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func accidentsScenario(steps ...Step) *Scenario {
	return &Scenario{
		Name:        "inline",
		Description: "Inline test scenario",
		Dataset:     accidentsDataset,
		Preset:      "accidents",
		Now:         "2024-06-01",
		Steps:       steps,
	}
}

func TestRun_SetAndExpect(t *testing.T) {
	result, err := Run(accidentsScenario(
		Step{
			Set:    map[string]any{"severity": "متوسط"},
			Expect: &Expect{Count: intPtr(2), IDs: []any{11, 15}, Active: []string{"severity"}},
		},
	))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 1)
	event := result.Trace[0]
	assert.Equal(t, int64(1), event.Seq)
	assert.Equal(t, ActionSet, event.Action)
	assert.Equal(t, []any{11.0, 15.0}, event.IDs)
	assert.Equal(t, map[string]any{"severity": "متوسط"}, result.State)
	assert.Equal(t, 2, result.Count)
}

func TestRun_FailedExpectationsAreReported(t *testing.T) {
	result, err := Run(accidentsScenario(
		Step{
			Set:    map[string]any{"severity": "متوسط"},
			Expect: &Expect{Count: intPtr(3), IDs: []any{11}, Active: []string{}},
		},
	))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "step 0: expected count 3, got 2")
	assert.Contains(t, result.Errors[1], "expected ids [11]")
	assert.Contains(t, result.Errors[2], "expected active filters []")
}

func TestRun_ResetAndResetAll(t *testing.T) {
	result, err := Run(accidentsScenario(
		Step{Set: map[string]any{"severity": "خطير", "weather": "مشمس"}},
		Step{Reset: "weather", Expect: &Expect{IDs: []any{12, 14}}},
		Step{ResetAll: true, Expect: &Expect{Count: intPtr(5), Active: []string{}}},
	))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	assert.Equal(t, 0, result.Trace[0].Count, "no serious accident in sunny weather")
	assert.Equal(t, map[string]any{"key": "weather"}, result.Trace[1].Args)
	assert.Empty(t, result.State)
}

func TestRun_SnapshotRestoresState(t *testing.T) {
	result, err := Run(accidentsScenario(
		Step{Set: map[string]any{"governorate": []any{"albaha", "qilwah"}, "vehiclesInvolved": "1-2"}},
		Step{Snapshot: true, Expect: &Expect{IDs: []any{12, 13}, Active: []string{"governorate", "vehiclesInvolved"}}},
		Step{Snapshot: true},
	))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	assert.Equal(t, map[string]any{"id": "snapshot-0001"}, result.Trace[1].Args)
	assert.Equal(t, map[string]any{"id": "snapshot-0002"}, result.Trace[2].Args)
	assert.Equal(t, []string{"albaha", "qilwah"}, result.State["governorate"])
}

func TestRun_HeatmapChecks(t *testing.T) {
	result, err := Run(accidentsScenario(
		Step{Heatmap: &HeatmapStep{
			Analysis:    "severity_weighted",
			Points:      intPtr(5),
			Max:         floatPtr(0.8),
			Min:         floatPtr(0.4),
			Intensities: []float64{0.6, 0.8, 0.4, 0.8, 0.6},
		}},
		Step{Heatmap: &HeatmapStep{Analysis: "crash_density", Points: intPtr(4), Average: floatPtr(0.5)}},
	))
	require.NoError(t, err)

	require.NotNil(t, result.Trace[0].Heatmap)
	assert.Equal(t, "0.6400", result.Trace[0].Heatmap.Average)
	assert.Equal(t, "severity_weighted", result.Trace[0].Heatmap.Analysis)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"step 1: expected 4 heatmap points, got 5",
		"step 1: expected heatmap average intensity 0.5, got 1",
	}, result.Errors)
}

func TestRun_ExecutionErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{
			name:    "unknown preset",
			mutate:  func(s *Scenario) { s.Preset = "roads" },
			wantErr: "failed to load preset",
		},
		{
			name:    "missing dataset",
			mutate:  func(s *Scenario) { s.Dataset = "nope.json" },
			wantErr: "failed to load dataset",
		},
		{
			name:    "unknown filter",
			mutate:  func(s *Scenario) { s.Steps = []Step{{Set: map[string]any{"colour": "red"}}} },
			wantErr: `step 0: set: unknown filter "colour"`,
		},
		{
			name:    "unparseable value",
			mutate:  func(s *Scenario) { s.Steps = []Step{{Set: map[string]any{"vehiclesInvolved": "many"}}} },
			wantErr: "set vehiclesInvolved",
		},
		{
			name:    "unknown reset key",
			mutate:  func(s *Scenario) { s.Steps = []Step{{Reset: "colour"}} },
			wantErr: `reset: unknown filter "colour"`,
		},
		{
			name: "catalog without the filter set",
			mutate: func(s *Scenario) {
				s.Preset = ""
				s.Catalog = "../catalog/testdata/valid"
				s.FilterSet = "bridges"
			},
			wantErr: `has no filter set "bridges"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := accidentsScenario(Step{ResetAll: true})
			tt.mutate(s)
			_, err := Run(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_CustomRegistry(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.Register("atLeast", func(field string) filter.Predicate {
		return filter.PredicateFunc(func(record.Object, filter.Value) bool { return false })
	})

	result, err := Run(accidentsScenario(
		Step{Set: map[string]any{"minFatalities": 0}, Expect: &Expect{Count: intPtr(0)}},
	), WithRegistry(reg))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Logs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	_, err := Run(accidentsScenario(Step{ResetAll: true}), WithLogger(zap.New(core)))
	require.NoError(t, err)

	finished := logs.FilterMessage("scenario finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, "inline", finished[0].ContextMap()["scenario"])
	assert.Equal(t, true, finished[0].ContextMap()["pass"])

	assert.Len(t, logs.FilterMessage("records imported").All(), 1, "store shares the logger")
	assert.Len(t, logs.FilterMessage("step completed").All(), 1)
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/accidents_filtering.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}
