package filter

import (
	"time"

	"github.com/roach88/roadwatch/internal/record"
)

// ChangeFunc receives the state and the filtered records after every
// mutation of a Panel.
type ChangeFunc func(state State, filtered []record.Object)

// Panel owns a filter state and re-applies it whenever the state, the
// records or the descriptors change.
//
// Panel is the reactive layer a UI binds to; the filter logic itself stays
// in the pure functions of this package.
//
// Panel is NOT safe for concurrent use. It belongs to a single UI thread.
type Panel struct {
	descs    []Descriptor
	records  []record.Object
	state    State
	filtered []record.Object
	onChange ChangeFunc
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithOnChange registers the change callback.
func WithOnChange(fn ChangeFunc) PanelOption {
	return func(p *Panel) {
		p.onChange = fn
	}
}

// NewPanel creates a panel with a freshly initialized state and applies it
// once, which notifies the change callback.
//
// The descriptor and record slices are copied.
func NewPanel(descs []Descriptor, records []record.Object, opts ...PanelOption) *Panel {
	p := &Panel{
		descs:   append([]Descriptor(nil), descs...),
		records: append([]record.Object(nil), records...),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state = Initialize(p.descs)
	p.refresh()
	return p
}

// Set changes one filter value.
func (p *Panel) Set(key string, value Value) {
	p.state = UpdateField(p.state, key, value)
	p.refresh()
}

// Reset restores one filter to its default.
func (p *Panel) Reset(key string) {
	p.state = ResetField(p.state, p.descs, key)
	p.refresh()
}

// ResetAll restores every filter to its default.
func (p *Panel) ResetAll() {
	p.state = ResetAll(p.state, p.descs)
	p.refresh()
}

// SetRecords replaces the data set and re-applies the current state.
func (p *Panel) SetRecords(records []record.Object) {
	p.records = append([]record.Object(nil), records...)
	p.refresh()
}

// SetDescriptors replaces the filter set. The state is rebuilt from the new
// descriptors; values entered under the old set are discarded.
func (p *Panel) SetDescriptors(descs []Descriptor) {
	p.descs = append([]Descriptor(nil), descs...)
	p.state = Initialize(p.descs)
	p.refresh()
}

// State returns a copy of the current state.
func (p *Panel) State() State {
	return p.state.Clone()
}

// Descriptors returns a copy of the current descriptor list.
func (p *Panel) Descriptors() []Descriptor {
	return append([]Descriptor(nil), p.descs...)
}

// Results returns a copy of the filtered records.
func (p *Panel) Results() []record.Object {
	return append([]record.Object(nil), p.filtered...)
}

// ResultCount returns the number of filtered records.
func (p *Panel) ResultCount() int {
	return len(p.filtered)
}

// Active returns the active filters of the current state.
func (p *Panel) Active() []ActiveFilter {
	return ActiveFilters(p.state, p.descs)
}

// Snapshot captures the active filters for export.
func (p *Panel) Snapshot(now time.Time) Snapshot {
	return NewSnapshot(p.state, p.descs, len(p.filtered), now)
}

func (p *Panel) refresh() {
	p.filtered = Apply(p.records, p.descs, p.state)
	if p.onChange != nil {
		p.onChange(p.state.Clone(), append([]record.Object(nil), p.filtered...))
	}
}
