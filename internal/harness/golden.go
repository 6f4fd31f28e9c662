package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/roadwatch/internal/record"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string         `json:"scenario_name"`
	Trace        []TraceEvent   `json:"trace"`
	State        map[string]any `json:"state"`
}

// toCanonicalMap converts a TraceSnapshot to the plain tree
// record.MarshalCanonicalAny accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		active := make([]any, len(event.Active))
		for j, key := range event.Active {
			active[j] = key
		}
		eventMap := map[string]any{
			"seq":    event.Seq,
			"action": event.Action,
			"count":  event.Count,
			"ids":    event.IDs,
			"active": active,
		}
		if len(event.Args) > 0 {
			eventMap["args"] = event.Args
		}
		if hm := event.Heatmap; hm != nil {
			eventMap["heatmap"] = map[string]any{
				"analysis": hm.Analysis,
				"points":   hm.Points,
				"max":      hm.Max,
				"min":      hm.Min,
				"average":  hm.Average,
				"skipped":  hm.Skipped,
			}
		}
		traceList[i] = eventMap
	}

	state := s.State
	if state == nil {
		state = map[string]any{}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"state":         state,
	}
}

// MarshalTrace renders the result's trace as canonical JSON.
func MarshalTrace(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		State:        result.State,
	}
	return record.MarshalCanonicalAny(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
