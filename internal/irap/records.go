package irap

import (
	"fmt"

	"github.com/roach88/roadwatch/internal/record"
)

// Record field names read by SegmentsFromRecords.
const (
	FieldID         = "id"
	FieldStartKm    = "startKm"
	FieldEndKm      = "endKm"
	FieldStarRating = "starRating"
	FieldFactors    = "factors"
	FieldCrashRate  = "crashRate"
)

// Skipped reports a record SegmentsFromRecords could not rate.
type Skipped struct {
	Index  int
	Reason string
}

func (s Skipped) String() string {
	return fmt.Sprintf("record %d: %s", s.Index, s.Reason)
}

// SegmentsFromRecords reads road segments: startKm and endKm, then either
// a measured starRating or the eight design factors, and an optional
// crashRate that defaults to DefaultCrashRate. A measured rating wins over
// factors and is rounded into 1-5. Records that cannot be rated are
// skipped and reported.
func SegmentsFromRecords(recs []record.Object) ([]Segment, []Skipped) {
	var (
		out     = make([]Segment, 0, len(recs))
		skipped []Skipped
	)
	for i, rec := range recs {
		seg, err := segmentFromRecord(i, rec)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		out = append(out, seg)
	}
	return out, skipped
}

func segmentFromRecord(i int, rec record.Object) (Segment, error) {
	seg := Segment{ID: fmt.Sprintf("segment_%d", i+1)}
	if v, ok := record.Lookup(rec, FieldID); record.Present(v, ok) {
		if id, isText := record.Text(v); isText && id != "" {
			seg.ID = id
		}
	}

	var err error
	if seg.StartKm, err = number(rec, FieldStartKm); err != nil {
		return Segment{}, err
	}
	if seg.EndKm, err = number(rec, FieldEndKm); err != nil {
		return Segment{}, err
	}
	if seg.EndKm <= seg.StartKm {
		return Segment{}, fmt.Errorf("%s %v must exceed %s %v", FieldEndKm, seg.EndKm, FieldStartKm, seg.StartKm)
	}

	if seg.Stars, err = stars(rec); err != nil {
		return Segment{}, err
	}

	seg.CrashRate = DefaultCrashRate
	if v, ok := record.Lookup(rec, FieldCrashRate); record.Present(v, ok) {
		rate, isNumber := record.ToNumber(v)
		if !isNumber || rate < 0 {
			return Segment{}, fmt.Errorf("%s must be a non-negative number, got %s", FieldCrashRate, record.Describe(v))
		}
		seg.CrashRate = rate
	}
	return seg, nil
}

func stars(rec record.Object) (int, error) {
	if v, ok := record.Lookup(rec, FieldStarRating); record.Present(v, ok) {
		n, isNumber := record.ToNumber(v)
		if !isNumber {
			return 0, fmt.Errorf("%s must be numeric, got %s", FieldStarRating, record.Describe(v))
		}
		return ClampStars(int(round(n))), nil
	}
	if _, ok := record.Lookup(rec, FieldFactors); !ok {
		return 0, fmt.Errorf("missing %s or %s", FieldStarRating, FieldFactors)
	}

	var f Factors
	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"roadWidth", &f.RoadWidth},
		{"shoulderWidth", &f.ShoulderWidth},
		{"medianBarrier", &f.MedianBarrier},
		{"intersectionDesign", &f.IntersectionDesign},
		{"speedLimit", &f.SpeedLimit},
		{"lighting", &f.Lighting},
		{"signage", &f.Signage},
		{"roadCondition", &f.RoadCondition},
	} {
		n, err := number(rec, FieldFactors+"."+field.name)
		if err != nil {
			return 0, err
		}
		*field.dst = n
	}
	return f.StarRating(), nil
}

func number(rec record.Object, path string) (float64, error) {
	v, ok := record.Lookup(rec, path)
	if !record.Present(v, ok) {
		return 0, fmt.Errorf("missing %s", path)
	}
	n, isNumber := record.ToNumber(v)
	if !isNumber {
		return 0, fmt.Errorf("%s must be numeric, got %s", path, record.Describe(v))
	}
	return n, nil
}
