package harness

// Step actions as they appear in traces and trace assertions.
const (
	ActionSet      = "set"
	ActionReset    = "reset"
	ActionResetAll = "reset_all"
	ActionSnapshot = "snapshot"
	ActionHeatmap  = "heatmap"
)

// TraceEvent records one executed step and what the filter panel showed
// after it.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Action string         `json:"action"`
	Args   map[string]any `json:"args,omitempty"`

	// Count, IDs and Active describe the results after the step.
	Count  int      `json:"count"`
	IDs    []any    `json:"ids"`
	Active []string `json:"active"`

	// Heatmap is set for heatmap steps.
	Heatmap *HeatmapTrace `json:"heatmap,omitempty"`
}

// HeatmapTrace summarizes a generated layer. Intensities are rendered with
// four decimals so golden files do not depend on float formatting.
type HeatmapTrace struct {
	Analysis string `json:"analysis"`
	Points   int    `json:"points"`
	Max      string `json:"max"`
	Min      string `json:"min"`
	Average  string `json:"average"`
	Skipped  int    `json:"skipped"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State holds the final active filter values in their plain JSON form.
	State map[string]any `json:"state"`

	// Count is the final number of matching records.
	Count int `json:"count"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		State:  make(map[string]any),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
