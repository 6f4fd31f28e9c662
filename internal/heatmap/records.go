package heatmap

import (
	"fmt"

	"github.com/roach88/roadwatch/internal/record"
)

// Record field names read by the adapters.
const (
	FieldCoordinates = "coordinates"
	FieldSeverity    = "severity"
	FieldDate        = "date"
	FieldRiskScore   = "riskScore"
)

// Skipped reports a record the adapters could not place on the map.
type Skipped struct {
	Index  int
	Reason string
}

func (s Skipped) String() string {
	return fmt.Sprintf("record %d: %s", s.Index, s.Reason)
}

// IncidentsFromRecords reads incidents from dashboard records:
// coordinates as [lat, lng], a severity label, and a date. Records without
// usable coordinates are skipped and reported. A missing or unparseable
// date leaves Incident.Date zero.
func IncidentsFromRecords(recs []record.Object) ([]Incident, []Skipped) {
	var (
		out     = make([]Incident, 0, len(recs))
		skipped []Skipped
	)
	for i, rec := range recs {
		lat, lng, err := coordinates(rec)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		inc := Incident{Lat: lat, Lng: lng}
		if v, ok := record.Lookup(rec, FieldSeverity); ok {
			if s, isString := v.(record.String); isString {
				inc.Severity = ParseSeverity(string(s))
			}
		}
		if v, ok := record.Lookup(rec, FieldDate); ok {
			if t, parsed := record.ToTime(v); parsed {
				inc.Date = t
			}
		}
		out = append(out, inc)
	}
	return out, skipped
}

// HazardsFromRecords reads hazard points (blackspots): coordinates and a
// numeric riskScore. Records missing either are skipped and reported.
func HazardsFromRecords(recs []record.Object) ([]Hazard, []Skipped) {
	var (
		out     = make([]Hazard, 0, len(recs))
		skipped []Skipped
	)
	for i, rec := range recs {
		lat, lng, err := coordinates(rec)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		v, _ := record.Lookup(rec, FieldRiskScore)
		score, ok := record.ToNumber(v)
		if !ok {
			skipped = append(skipped, Skipped{Index: i, Reason: "missing numeric riskScore"})
			continue
		}
		out = append(out, Hazard{Lat: lat, Lng: lng, RiskScore: score})
	}
	return out, skipped
}

func coordinates(rec record.Object) (lat, lng float64, err error) {
	v, ok := record.Lookup(rec, FieldCoordinates)
	if !ok {
		return 0, 0, fmt.Errorf("missing %s", FieldCoordinates)
	}
	list, isList := v.(record.List)
	if !isList || len(list) < 2 {
		return 0, 0, fmt.Errorf("%s must be [lat, lng], got %s", FieldCoordinates, record.Describe(v))
	}
	lat, latOK := record.ToNumber(list[0])
	lng, lngOK := record.ToNumber(list[1])
	if !latOK || !lngOK {
		return 0, 0, fmt.Errorf("%s must be numeric, got %s", FieldCoordinates, record.Describe(v))
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("%s out of range: %s", FieldCoordinates, record.Describe(v))
	}
	return lat, lng, nil
}
