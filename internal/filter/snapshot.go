package filter

import (
	"encoding/json"
	"time"
)

// Snapshot is the exported form of a filter state: the active filters'
// raw values, when they were captured, and how many records they selected.
type Snapshot struct {
	Filters     map[string]any `json:"filters"`
	Timestamp   time.Time      `json:"timestamp"`
	ResultCount int            `json:"resultCount"`
}

// NewSnapshot captures the active filters of state. Values are stored in
// their plain JSON form (see Encode).
func NewSnapshot(state State, descs []Descriptor, resultCount int, now time.Time) Snapshot {
	filters := make(map[string]any)
	for _, af := range ActiveFilters(state, descs) {
		filters[af.Key] = Encode(af.Value)
	}
	return Snapshot{
		Filters:     filters,
		Timestamp:   now.UTC(),
		ResultCount: resultCount,
	}
}

// FileName returns the download name used by the dashboard,
// filters_YYYY-MM-DD.json, dated by the snapshot's UTC timestamp.
func (s Snapshot) FileName() string {
	return "filters_" + s.Timestamp.UTC().Format(time.DateOnly) + ".json"
}

// MarshalIndent renders the snapshot as two-space indented JSON.
func (s Snapshot) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// State rebuilds a filter state from the snapshot. Filters whose key has no
// descriptor are dropped; values the kind cannot parse are reported.
func (s Snapshot) State(descs []Descriptor) (State, error) {
	state := Initialize(descs)
	for key, raw := range s.Filters {
		d, ok := Find(descs, key)
		if !ok {
			continue
		}
		v, err := ValueFromAny(d.Kind, raw)
		if err != nil {
			return nil, err
		}
		state[key] = v
	}
	return state, nil
}
