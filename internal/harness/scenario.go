package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roadwatch/internal/heatmap"
	"github.com/roach88/roadwatch/internal/record"
)

// Scenario defines a filter conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is the JSON or YAML record file the filters run over.
	Dataset string `yaml:"dataset"`

	// Hazards is an optional blackspot dataset used by risk_assessment
	// heatmap steps.
	Hazards string `yaml:"hazards,omitempty"`

	// Preset names a built-in filter set. Mutually exclusive with Catalog.
	Preset string `yaml:"preset,omitempty"`

	// Catalog is a CUE catalog directory; FilterSet picks a set from it.
	Catalog   string `yaml:"catalog,omitempty"`
	FilterSet string `yaml:"filterset,omitempty"`

	// Now fixes the reference time for temporal heatmaps and snapshot
	// timestamps. Defaults to testutil.DefaultStart.
	Now string `yaml:"now,omitempty"`

	// Steps change the filter state in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one user action. Exactly one of Set, Reset, ResetAll, Snapshot
// and Heatmap is given.
type Step struct {
	// Set assigns filter values by key. Values are parsed for the filter's
	// kind: strings use the legacy encodings, lists give choices or
	// [min, max] pairs.
	Set map[string]any `yaml:"set,omitempty"`

	// Reset restores the named filter to its default.
	Reset string `yaml:"reset,omitempty"`

	// ResetAll restores every filter.
	ResetAll bool `yaml:"reset_all,omitempty"`

	// Snapshot saves the active filters to the store and restores the
	// state from the saved copy.
	Snapshot bool `yaml:"snapshot,omitempty"`

	// Heatmap builds a layer over the current results.
	Heatmap *HeatmapStep `yaml:"heatmap,omitempty"`

	// Expect checks the results after the step. Optional.
	Expect *Expect `yaml:"expect,omitempty"`
}

// action returns the step's action name, or "" when none or several are
// given.
func (s Step) action() string {
	var actions []string
	if s.Set != nil {
		actions = append(actions, ActionSet)
	}
	if s.Reset != "" {
		actions = append(actions, ActionReset)
	}
	if s.ResetAll {
		actions = append(actions, ActionResetAll)
	}
	if s.Snapshot {
		actions = append(actions, ActionSnapshot)
	}
	if s.Heatmap != nil {
		actions = append(actions, ActionHeatmap)
	}
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

// Expect specifies the results after a step. Unset fields are not checked.
type Expect struct {
	// Count is the number of matching records.
	Count *int `yaml:"count,omitempty"`

	// IDs are the "id" fields of the matching records, in order.
	IDs []any `yaml:"ids,omitempty"`

	// Active lists the keys of the active filters in descriptor order.
	// An empty list asserts that no filter is active.
	Active []string `yaml:"active,omitempty"`
}

// HeatmapStep selects an analysis and optionally checks the layer.
type HeatmapStep struct {
	Analysis string `yaml:"analysis"`

	Points      *int      `yaml:"points,omitempty"`
	Max         *float64  `yaml:"max,omitempty"`
	Min         *float64  `yaml:"min,omitempty"`
	Average     *float64  `yaml:"average,omitempty"`
	Intensities []float64 `yaml:"intensities,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a step with Action and Args (subset) ran
	// - "trace_order": Actions ran in order
	// - "trace_count": Action ran exactly Count times
	// - "final_state": the final active filters are exactly Expect
	// - "result_count": the final result has Count records
	Type string `yaml:"type"`

	// Action is the step action (used by trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Args are the expected step arguments (used by trace_contains).
	// Subset match - only specified fields are validated.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect maps the keys of the active filters to their plain values
	// (used by final_state). An empty map asserts no filter is active.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is the expected number (used by trace_count, result_count).
	Count int `yaml:"count,omitempty"`

	// Actions is the expected action order (used by trace_order).
	Actions []string `yaml:"actions,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertResultCount   = "result_count"
)

// LoadScenario reads and parses a scenario YAML file. Relative paths in the
// scenario are resolved against the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving dataset and catalog paths relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "step:" vs "steps:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve paths relative to base path BEFORE validation
	for _, p := range []*string{&scenario.Dataset, &scenario.Hazards, &scenario.Catalog} {
		if *p != "" && !filepath.IsAbs(*p) && basePath != "" {
			*p = filepath.Join(basePath, *p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}

	switch {
	case s.Preset != "" && s.Catalog != "":
		return fmt.Errorf("preset and catalog are mutually exclusive")
	case s.Preset == "" && s.Catalog == "":
		return fmt.Errorf("one of preset or catalog is required")
	case s.Catalog != "" && s.FilterSet == "":
		return fmt.Errorf("filterset is required with catalog")
	case s.Preset != "" && s.FilterSet != "":
		return fmt.Errorf("filterset is only valid with catalog")
	}

	if s.Now != "" {
		if _, ok := record.ParseTime(s.Now); !ok {
			return fmt.Errorf("now: cannot parse %q as a date", s.Now)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	// Validate referenced files exist
	for _, p := range []string{s.Dataset, s.Hazards, s.Catalog} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step Step) error {
	action := step.action()
	if action == "" {
		return fmt.Errorf("steps[%d]: exactly one of set, reset, reset_all, snapshot, heatmap is required", index)
	}
	if action == ActionSet && len(step.Set) == 0 {
		return fmt.Errorf("steps[%d]: set needs at least one filter", index)
	}
	if action == ActionHeatmap {
		if !heatmap.AnalysisType(step.Heatmap.Analysis).Valid() {
			return fmt.Errorf("steps[%d]: unknown heatmap analysis %q", index, step.Heatmap.Analysis)
		}
		if step.Expect != nil {
			return fmt.Errorf("steps[%d]: heatmap steps check the layer, not expect", index)
		}
	}
	if step.Expect != nil && step.Expect.Count != nil && *step.Expect.Count < 0 {
		return fmt.Errorf("steps[%d].expect: count must be non-negative", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertResultCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for result_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
