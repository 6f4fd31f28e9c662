package irap

import "math"

// Factors scores the road design of a segment, each on a 1-5 scale.
type Factors struct {
	RoadWidth          float64 `json:"roadWidth"`
	ShoulderWidth      float64 `json:"shoulderWidth"`
	MedianBarrier      float64 `json:"medianBarrier"`
	IntersectionDesign float64 `json:"intersectionDesign"`
	SpeedLimit         float64 `json:"speedLimit"`
	Lighting           float64 `json:"lighting"`
	Signage            float64 `json:"signage"`
	RoadCondition      float64 `json:"roadCondition"`
}

const (
	MinStars = 1
	MaxStars = 5
)

// Score returns the weighted average of the factors.
func (f Factors) Score() float64 {
	return f.RoadWidth*0.2 +
		f.ShoulderWidth*0.15 +
		f.MedianBarrier*0.2 +
		f.IntersectionDesign*0.15 +
		f.SpeedLimit*0.1 +
		f.Lighting*0.1 +
		f.Signage*0.05 +
		f.RoadCondition*0.05
}

// StarRating converts the weighted score to whole stars within 1-5.
func (f Factors) StarRating() int {
	return ClampStars(int(round(f.Score())))
}

// ClampStars bounds a rating to 1-5.
func ClampStars(stars int) int {
	return max(MinStars, min(MaxStars, stars))
}

// Band groups star ratings by risk.
type Band int

const (
	BandHigh Band = iota
	BandMedium
	BandLow
)

// BandFor returns the risk band of a star rating: two stars or fewer is
// high risk, three is medium.
func BandFor(stars int) Band {
	switch {
	case stars <= 2:
		return BandHigh
	case stars <= 3:
		return BandMedium
	default:
		return BandLow
	}
}

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// RiskLabel is the Arabic risk level shown for a segment.
func (b Band) RiskLabel() string {
	switch b {
	case BandHigh:
		return "عالي"
	case BandMedium:
		return "متوسط"
	default:
		return "منخفض"
	}
}

// PriorityLabel is the Arabic intervention priority of a segment.
func (b Band) PriorityLabel() string {
	switch b {
	case BandHigh:
		return "عاجل"
	case BandMedium:
		return "متوسط"
	default:
		return "منخفض"
	}
}

// Category is the Arabic label of a whole-road rating.
func (b Band) Category() string {
	switch b {
	case BandHigh:
		return "عالي الخطورة"
	case BandMedium:
		return "متوسط الخطورة"
	default:
		return "منخفض الخطورة"
	}
}

// Color is the marker color of the band.
func (b Band) Color() string {
	switch b {
	case BandHigh:
		return "#ef4444"
	case BandMedium:
		return "#f59e0b"
	default:
		return "#10b981"
	}
}

// round rounds half up, the way the dashboard's Math.round does.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// roundTo rounds x half up to the given number of decimals.
func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return round(x*p) / p
}
