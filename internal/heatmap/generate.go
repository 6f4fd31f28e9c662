package heatmap

import (
	"math"
	"time"
)

// Incident is a geo-tagged event.
type Incident struct {
	Lat      float64
	Lng      float64
	Severity Severity

	// Date is when the incident happened. The zero time means unknown and
	// weighs as the oldest possible event in temporal analysis.
	Date time.Time
}

// Hazard is a known dangerous location with a risk score on a 0-10 scale.
type Hazard struct {
	Lat       float64
	Lng       float64
	RiskScore float64
}

// Point is one weighted heatmap point.
type Point struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

const (
	// daysPerYear is the span over which temporal weight decays.
	daysPerYear = 365

	// minTimeWeight is the temporal floor for old events.
	minTimeWeight = 0.1
)

// Severity weights per analysis type.
var (
	severityWeights = map[Severity]float64{
		SeverityFatal:    1.0,
		SeveritySerious:  0.8,
		SeverityModerate: 0.6,
		SeverityMinor:    0.4,
		SeverityUnknown:  0.3,
	}
	riskWeights = map[Severity]float64{
		SeverityFatal:    0.9,
		SeveritySerious:  0.7,
		SeverityModerate: 0.5,
		SeverityMinor:    0.3,
		SeverityUnknown:  0.3,
	}
	temporalWeights = map[Severity]float64{
		SeverityFatal:    1.0,
		SeveritySerious:  0.8,
		SeverityModerate: 0.6,
		SeverityMinor:    0.4,
		SeverityUnknown:  0.4,
	}
)

// Generate weights incidents (and, for risk assessment, hazards) for the
// given analysis type. Unknown analysis types behave like CrashDensity.
//
// now is the reference time for temporal analysis. Output order follows
// input order; hazard points come after all incidents. Intensities are never
// negative.
func Generate(incidents []Incident, hazards []Hazard, analysis AnalysisType, now time.Time) []Point {
	analysis = analysis.Normalize()

	points := make([]Point, 0, len(incidents)+len(hazards))
	for _, inc := range incidents {
		points = append(points, Point{
			Lat:       inc.Lat,
			Lng:       inc.Lng,
			Intensity: floor(incidentWeight(inc, analysis, now)),
		})
	}

	if analysis == RiskAssessment {
		for _, h := range hazards {
			points = append(points, Point{
				Lat:       h.Lat,
				Lng:       h.Lng,
				Intensity: floor(h.RiskScore / 10),
			})
		}
	}
	return points
}

func incidentWeight(inc Incident, analysis AnalysisType, now time.Time) float64 {
	switch analysis {
	case SeverityWeighted:
		return severityWeights[inc.Severity]
	case RiskAssessment:
		return riskWeights[inc.Severity]
	case TemporalAnalysis:
		return TimeWeight(inc.Date, now) * temporalWeights[inc.Severity]
	default:
		return 1.0
	}
}

// TimeWeight is the recency factor of temporal analysis:
// max(0.1, 1 - days/365), where days is the number of whole days between
// date and now. Future dates weigh 1; an unknown (zero) date weighs 0.1.
func TimeWeight(date, now time.Time) float64 {
	if date.IsZero() {
		return minTimeWeight
	}
	w := 1 - float64(DaysBetween(date, now))/daysPerYear
	return math.Min(1, math.Max(minTimeWeight, w))
}

// DaysBetween returns the whole days from date to now, negative when date
// is in the future.
func DaysBetween(date, now time.Time) int {
	return int(math.Floor(now.Sub(date).Hours() / 24))
}

// floor clamps negative and non-finite weights to 0.
func floor(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}
