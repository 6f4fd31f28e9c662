package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Action: ActionSet, Args: map[string]any{"severity": "خطير"}, Count: 2},
		{Seq: 2, Action: ActionSet, Args: map[string]any{"governorate": []any{"albaha"}}, Count: 1},
		{Seq: 3, Action: ActionHeatmap, Args: map[string]any{"analysis": "crash_density"}, Count: 1},
		{Seq: 4, Action: ActionResetAll, Count: 5},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	require.NoError(t, assertTraceContains(trace, Assertion{Action: ActionSet}))
	require.NoError(t, assertTraceContains(trace, Assertion{Action: ActionSet, Args: map[string]any{"severity": "خطير"}}))
	require.NoError(t, assertTraceContains(trace, Assertion{Action: ActionSet, Args: map[string]any{"governorate": []string{"albaha"}}}),
		"lists compare structurally")

	err := assertTraceContains(trace, Assertion{Action: ActionSet, Args: map[string]any{"severity": "بسيط"}})
	require.Error(t, err)
	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, AssertTraceContains, aerr.Type)
	assert.Contains(t, err.Error(), "not found in trace")
	assert.Contains(t, err.Error(), "[1] set")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	require.NoError(t, assertTraceOrder(trace, Assertion{Actions: []string{ActionSet, ActionHeatmap, ActionResetAll}}))
	require.NoError(t, assertTraceOrder(trace, Assertion{Actions: []string{ActionSet, ActionSet, ActionResetAll}}))

	err := assertTraceOrder(trace, Assertion{Actions: []string{ActionHeatmap, ActionSet}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no set after [heatmap]")

	err = assertTraceOrder(trace, Assertion{Actions: []string{ActionSet, ActionSet, ActionSet}})
	require.Error(t, err, "a repeated action needs a later occurrence")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	require.NoError(t, assertTraceCount(trace, Assertion{Action: ActionSet, Count: 2}))
	require.NoError(t, assertTraceCount(trace, Assertion{Action: ActionSnapshot, Count: 0}))

	err := assertTraceCount(trace, Assertion{Action: ActionHeatmap, Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 2 occurrences of heatmap")
	assert.Contains(t, err.Error(), "Actual: 1 occurrences")
}

func TestAssertFinalState(t *testing.T) {
	state := map[string]any{
		"severity":    "خطير",
		"governorate": []string{"albaha", "aqiq"},
	}

	require.NoError(t, assertFinalState(state, Assertion{Expect: map[string]any{
		"severity":    "خطير",
		"governorate": []any{"albaha", "aqiq"},
	}}))

	err := assertFinalState(state, Assertion{Expect: map[string]any{"severity": "خطير"}})
	require.Error(t, err, "extra active filters fail")
	assert.Contains(t, err.Error(), "active filters [governorate severity]")

	err = assertFinalState(state, Assertion{Expect: map[string]any{
		"severity":    "بسيط",
		"governorate": []any{"albaha", "aqiq"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `filter "severity"`)

	require.NoError(t, assertFinalState(map[string]any{}, Assertion{Expect: map[string]any{}}))
}

func TestAssertResultCount(t *testing.T) {
	require.NoError(t, assertResultCount(3, Assertion{Count: 3}))
	err := assertResultCount(0, Assertion{Count: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Actual: 0 records")
}

func TestMatchArgs(t *testing.T) {
	actual := map[string]any{"vehiclesInvolved": []any{2, 3}, "extra": true}

	assert.True(t, matchArgs(actual, nil))
	assert.True(t, matchArgs(actual, map[string]any{"vehiclesInvolved": []any{2.0, 3.0}}), "ints equal floats")
	assert.False(t, matchArgs(actual, map[string]any{"vehiclesInvolved": []any{2}}))
	assert.False(t, matchArgs(actual, map[string]any{"missing": 1}))
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	for _, event := range sampleTrace() {
		result.AddTrace(event)
	}
	result.Count = 5

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Action: ActionSet, Count: 2},
		{Type: AssertResultCount, Count: 4},
		{Type: AssertFinalState, Expect: map[string]any{}},
		{Type: "bogus"},
	})

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "result_count")
	assert.Contains(t, errs[1], `assertion[3]: unknown assertion type "bogus"`)
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)

	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}
