package harness

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/roadwatch/internal/catalog"
	"github.com/roach88/roadwatch/internal/dataset"
	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/heatmap"
	"github.com/roach88/roadwatch/internal/record"
	"github.com/roach88/roadwatch/internal/store"
	"github.com/roach88/roadwatch/internal/testutil"
)

// intensityTolerance bounds float comparisons of heatmap expectations.
const intensityTolerance = 1e-9

// Option configures a scenario run.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	registry *catalog.Registry
}

// WithLogger sets the logger for the run and its store. Defaults to a no-op
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry sets the predicate registry used to compile filter sets.
func WithRegistry(reg *catalog.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// Harness executes the steps of one scenario.
type Harness struct {
	store      *store.Store
	collection string
	panel      *filter.Panel
	descs      []filter.Descriptor
	hazards    []record.Object
	clock      *testutil.SteppingClock
	now        time.Time
	seq        int64
	logger     *zap.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Compile the filter set and load the dataset
// 2. Import the dataset into a fresh in-memory store
// 3. Execute steps, checking each step's expectations
// 4. Evaluate assertions against the trace and final state
//
// Run returns an error when the scenario cannot execute (missing files,
// unknown filter keys, unparseable values). Failed expectations are
// reported in Result.Errors instead.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	fs, err := resolveFilterSet(scenario, o.registry)
	if err != nil {
		return nil, err
	}

	recs, err := dataset.LoadFile(scenario.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	var hazards []record.Object
	if scenario.Hazards != "" {
		hazards, err = dataset.LoadFile(scenario.Hazards)
		if err != nil {
			return nil, fmt.Errorf("failed to load hazards: %w", err)
		}
	}

	now := testutil.DefaultStart
	if scenario.Now != "" {
		t, ok := record.ParseTime(scenario.Now)
		if !ok {
			return nil, fmt.Errorf("now: cannot parse %q as a date", scenario.Now)
		}
		now = t
	}

	st, err := store.Open(":memory:",
		store.WithLogger(o.logger),
		store.WithIDGenerator(testutil.NewSequentialIDs("snapshot")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := st.ImportRecords(ctx, fs.Name, recs); err != nil {
		return nil, fmt.Errorf("failed to import dataset: %w", err)
	}

	h := &Harness{
		store:      st,
		collection: fs.Name,
		panel:      filter.NewPanel(fs.Filters, recs),
		descs:      fs.Filters,
		hazards:    hazards,
		clock:      testutil.NewSteppingClock(now, time.Second),
		now:        now,
		logger:     o.logger.With(zap.String("scenario", scenario.Name)),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	for _, af := range h.panel.Active() {
		result.State[af.Key] = filter.Encode(af.Value)
	}
	result.Count = h.panel.ResultCount()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario finished",
		zap.Bool("pass", result.Pass),
		zap.Int("steps", len(scenario.Steps)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// resolveFilterSet compiles the scenario's preset or catalog filter set.
func resolveFilterSet(s *Scenario, reg *catalog.Registry) (*catalog.FilterSet, error) {
	if s.Preset != "" {
		fs, err := catalog.Preset(s.Preset, reg)
		if err != nil {
			return nil, fmt.Errorf("failed to load preset: %w", err)
		}
		return fs, nil
	}

	loaded, errs := catalog.Load(s.Catalog, catalog.LoadModeFailFast, reg)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load catalog: %w", errs[0])
	}
	fs, ok := loaded.FilterSet(s.FilterSet)
	if !ok {
		return nil, fmt.Errorf("catalog %s has no filter set %q", s.Catalog, s.FilterSet)
	}
	return fs, nil
}

// executeStep applies one step, cross-checks the store, records the trace
// event and validates the step's expectations.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) error {
	h.seq++
	event := TraceEvent{Seq: h.seq, Action: step.action()}

	switch event.Action {
	case ActionSet:
		if err := h.set(step.Set); err != nil {
			return err
		}
		event.Args = step.Set
	case ActionReset:
		if _, ok := filter.Find(h.descs, step.Reset); !ok {
			return fmt.Errorf("reset: unknown filter %q", step.Reset)
		}
		h.panel.Reset(step.Reset)
		event.Args = map[string]any{"key": step.Reset}
	case ActionResetAll:
		h.panel.ResetAll()
	case ActionSnapshot:
		id, err := h.snapshot(ctx)
		if err != nil {
			return err
		}
		event.Args = map[string]any{"id": id}
	case ActionHeatmap:
		event.Args = map[string]any{"analysis": step.Heatmap.Analysis}
	default:
		return fmt.Errorf("exactly one action is required")
	}

	if err := h.crossCheck(ctx, i, result); err != nil {
		return err
	}

	results := h.panel.Results()
	event.Count = len(results)
	event.IDs = recordIDs(results)
	event.Active = activeKeys(h.panel.Active())

	if step.Heatmap != nil {
		layer, skipped := h.heatmap(results, heatmap.AnalysisType(step.Heatmap.Analysis))
		event.Heatmap = &HeatmapTrace{
			Analysis: string(layer.Analysis),
			Points:   layer.Stats.TotalPoints,
			Max:      fmt.Sprintf("%.4f", layer.Stats.MaxIntensity),
			Min:      fmt.Sprintf("%.4f", layer.Stats.MinIntensity),
			Average:  fmt.Sprintf("%.4f", layer.Stats.AverageIntensity),
			Skipped:  skipped,
		}
		for _, msg := range checkHeatmap(*step.Heatmap, layer) {
			result.AddError(fmt.Sprintf("step %d: %s", i, msg))
		}
	}

	if step.Expect != nil {
		for _, msg := range checkExpect(*step.Expect, event) {
			result.AddError(fmt.Sprintf("step %d: %s", i, msg))
		}
	}

	result.AddTrace(event)
	h.logger.Debug("step completed",
		zap.Int("step", i),
		zap.String("action", event.Action),
		zap.Int("count", event.Count),
		zap.Strings("active", event.Active),
	)
	return nil
}

// set parses and assigns filter values in key order.
func (h *Harness) set(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		d, ok := filter.Find(h.descs, key)
		if !ok {
			return fmt.Errorf("set: unknown filter %q", key)
		}
		v, err := filter.ValueFromAny(d.Kind, values[key])
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		h.panel.Set(key, v)
	}
	return nil
}

// snapshot saves the active filters and restores the panel from the saved
// copy, so a lossy snapshot shows up as changed results.
func (h *Harness) snapshot(ctx context.Context) (string, error) {
	id, err := h.store.SaveSnapshot(ctx, h.collection, h.panel.Snapshot(h.clock.Now()))
	if err != nil {
		return "", err
	}
	stored, err := h.store.Snapshot(ctx, id)
	if err != nil {
		return "", err
	}
	state, err := stored.Snapshot.State(h.descs)
	if err != nil {
		return "", fmt.Errorf("restore snapshot %s: %w", id, err)
	}

	h.panel.ResetAll()
	for _, d := range h.descs {
		if v, ok := state[d.Key]; ok && filter.IsActive(d, v) {
			h.panel.Set(d.Key, v)
		}
	}
	return id, nil
}

// crossCheck compares the panel's results with the store's query path.
func (h *Harness) crossCheck(ctx context.Context, i int, result *Result) error {
	fromStore, err := h.store.Records(ctx, h.collection, h.descs, h.panel.State())
	if err != nil {
		return err
	}
	want := recordIDs(h.panel.Results())
	got := recordIDs(fromStore)
	if !idsEqual(want, got) {
		result.AddError(fmt.Sprintf("step %d: store returned ids %v, filter engine %v", i, got, want))
	}
	return nil
}

func (h *Harness) heatmap(results []record.Object, analysis heatmap.AnalysisType) (heatmap.Layer, int) {
	incidents, skipped := heatmap.IncidentsFromRecords(results)
	hazards, skippedHazards := heatmap.HazardsFromRecords(h.hazards)
	for _, s := range append(skipped, skippedHazards...) {
		h.logger.Debug("record not placed on heatmap", zap.String("reason", s.String()))
	}
	layer := heatmap.BuildLayer(incidents, hazards, analysis, heatmap.DefaultSettings(), h.now)
	return layer, len(skipped) + len(skippedHazards)
}

func checkExpect(want Expect, event TraceEvent) []string {
	var errs []string
	if want.Count != nil && *want.Count != event.Count {
		errs = append(errs, fmt.Sprintf("expected count %d, got %d", *want.Count, event.Count))
	}
	if want.IDs != nil && !idsEqual(want.IDs, event.IDs) {
		errs = append(errs, fmt.Sprintf("expected ids %v, got %v", want.IDs, event.IDs))
	}
	if want.Active != nil && !slices.Equal(want.Active, event.Active) {
		errs = append(errs, fmt.Sprintf("expected active filters %v, got %v", want.Active, event.Active))
	}
	return errs
}

func checkHeatmap(want HeatmapStep, layer heatmap.Layer) []string {
	var errs []string
	if want.Points != nil && *want.Points != layer.Stats.TotalPoints {
		errs = append(errs, fmt.Sprintf("expected %d heatmap points, got %d", *want.Points, layer.Stats.TotalPoints))
	}
	stats := []struct {
		name string
		want *float64
		got  float64
	}{
		{"max", want.Max, layer.Stats.MaxIntensity},
		{"min", want.Min, layer.Stats.MinIntensity},
		{"average", want.Average, layer.Stats.AverageIntensity},
	}
	for _, s := range stats {
		if s.want != nil && math.Abs(*s.want-s.got) > intensityTolerance {
			errs = append(errs, fmt.Sprintf("expected heatmap %s intensity %v, got %v", s.name, *s.want, s.got))
		}
	}
	if want.Intensities != nil {
		got := make([]float64, len(layer.Points))
		for i, p := range layer.Points {
			got[i] = p.Intensity
		}
		if !slices.EqualFunc(want.Intensities, got, func(a, b float64) bool {
			return math.Abs(a-b) <= intensityTolerance
		}) {
			errs = append(errs, fmt.Sprintf("expected heatmap intensities %v, got %v", want.Intensities, got))
		}
	}
	return errs
}

// recordIDs returns the plain "id" values of records; records without an
// id contribute nil.
func recordIDs(recs []record.Object) []any {
	ids := make([]any, len(recs))
	for i, rec := range recs {
		ids[i] = record.ToAny(rec["id"])
	}
	return ids
}

func activeKeys(active []filter.ActiveFilter) []string {
	keys := make([]string, len(active))
	for i, af := range active {
		keys[i] = af.Key
	}
	return keys
}

// idsEqual compares id lists after converting both to record values, so
// YAML integers equal JSON numbers.
func idsEqual(a, b []any) bool {
	av, errA := record.FromAny(a)
	bv, errB := record.FromAny(b)
	if errA != nil || errB != nil {
		return false
	}
	return record.Equal(av, bv)
}
