// Package harness runs filter scenarios as executable contract tests.
//
// A scenario loads a dataset, picks a filter set (a built-in preset or a
// set from a CUE catalog directory) and walks a list of steps that change
// the filter state the way a dashboard user would. After every step the
// harness checks the expected result count, record ids and active filters,
// and records a trace event for golden comparison.
//
// # Scenario Format
//
//	name: severe_in_fog
//	description: "Serious accidents in fog"
//	dataset: ../../dataset/testdata/accidents.json
//	preset: accidents
//	now: "2024-06-01"
//	steps:
//	  - set: { severity: خطير }
//	    expect: { count: 2, ids: [12, 14], active: [severity] }
//	  - set: { weather: ضبابي }
//	  - snapshot: true
//	  - heatmap: { analysis: severity_weighted, points: 2, max: 0.8 }
//	  - reset_all: true
//	    expect: { count: 5 }
//	assertions:
//	  - type: trace_count
//	    action: set
//	    count: 2
//	  - type: final_state
//	    expect: {}
//
// Paths are relative to the scenario file. A scenario names either preset
// or catalog plus filterset.
//
// # Step Actions
//
//   - set: assigns one or more filter values, parsed for each filter's kind
//   - reset: restores one filter to its default
//   - reset_all: restores every filter
//   - snapshot: saves the active filters to the store and restores them
//   - heatmap: builds a heatmap layer over the current results
//
// # Assertion Types
//
//   - trace_contains: a step with the given action and args subset ran
//   - trace_order: actions ran in the given order
//   - trace_count: an action ran exactly N times
//   - final_state: the final active filters and their values
//   - result_count: the final number of matching records
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store. Snapshot
// timestamps come from a stepping clock starting at the scenario's now, and
// snapshot ids are sequential, so traces are identical across runs.
//
// Each step is evaluated twice: by the in-memory filter panel and by the
// store's SQL push-down path. A disagreement fails the scenario.
package harness
