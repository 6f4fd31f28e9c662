package irap

const (
	// DefaultCrashRate is the regional crashes per kilometre per year used
	// when a segment has no measured rate.
	DefaultCrashRate = 2.5

	// CostPerCrash is the average cost of one crash in riyals.
	CostPerCrash = 500_000

	// CrashReduction is the share of crashes an upgrade is expected to
	// prevent.
	CrashReduction = 0.4

	// defaultCostPerKm prices ratings outside 1-5.
	defaultCostPerKm = 1_000_000
)

// costPerKm is the upgrade cost in riyals per kilometre by star rating.
var costPerKm = map[int]float64{
	1: 2_000_000,
	2: 1_500_000,
	3: 1_000_000,
	4: 500_000,
	5: 100_000,
}

// SegmentCost estimates the cost of bringing a segment up to standard.
func SegmentCost(stars int, lengthKm float64) float64 {
	perKm, ok := costPerKm[stars]
	if !ok {
		perKm = defaultCostPerKm
	}
	return perKm * lengthKm
}

// PotentialSavings estimates the yearly crash cost an upgrade avoids.
func PotentialSavings(crashRate, lengthKm float64) float64 {
	annualCrashes := crashRate * lengthKm
	return annualCrashes * CrashReduction * CostPerCrash
}

// Segment is a stretch of road between two kilometre posts.
type Segment struct {
	ID        string  `json:"id"`
	StartKm   float64 `json:"startKm"`
	EndKm     float64 `json:"endKm"`
	Stars     int     `json:"starRating"`
	CrashRate float64 `json:"crashRate"`
}

// Length returns the segment length in kilometres.
func (s Segment) Length() float64 {
	return s.EndKm - s.StartKm
}

// Assessment is a rated and priced segment.
type Assessment struct {
	Segment
	LengthKm         float64 `json:"length"`
	Band             string  `json:"band"`
	RiskLevel        string  `json:"riskLevel"`
	Priority         string  `json:"priority"`
	EstimatedCost    float64 `json:"estimatedCost"`
	PotentialSavings float64 `json:"potentialSavings"`
}

// Assess rates and prices one segment.
func Assess(s Segment) Assessment {
	band := BandFor(s.Stars)
	length := s.Length()
	return Assessment{
		Segment:          s,
		LengthKm:         length,
		Band:             band.String(),
		RiskLevel:        band.RiskLabel(),
		Priority:         band.PriorityLabel(),
		EstimatedCost:    SegmentCost(s.Stars, length),
		PotentialSavings: PotentialSavings(s.CrashRate, length),
	}
}

// Rating is the overall rating of a road.
type Rating struct {
	Stars    int    `json:"stars"`
	Score    int    `json:"score"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// RatingFor builds the rating of a whole road from its stars. Score is the
// stars as a percentage.
func RatingFor(stars int) Rating {
	band := BandFor(stars)
	return Rating{
		Stars:    stars,
		Score:    stars * 20,
		Category: band.Category(),
		Color:    band.Color(),
	}
}

// Report is the analysis of a road.
type Report struct {
	Segments      []Assessment `json:"segments"`
	TotalLengthKm float64      `json:"totalLength"`
	Overall       Rating       `json:"overallRating"`
	TotalCost     float64      `json:"totalCost"`
	TotalSavings  float64      `json:"totalSavings"`
}

// Analyze assesses every segment and rates the road as the
// length-weighted mean of its segment stars. A road without length has a
// zero rating.
func Analyze(segments []Segment) Report {
	report := Report{Segments: make([]Assessment, 0, len(segments))}
	var weighted float64
	for _, s := range segments {
		a := Assess(s)
		report.Segments = append(report.Segments, a)
		report.TotalLengthKm += a.LengthKm
		report.TotalCost += a.EstimatedCost
		report.TotalSavings += a.PotentialSavings
		weighted += float64(s.Stars) * a.LengthKm
	}
	if report.TotalLengthKm > 0 {
		report.Overall = RatingFor(ClampStars(int(round(weighted / report.TotalLengthKm))))
	}
	return report
}
