package heatmap

import (
	"fmt"
	"strings"
	"time"
)

// Stats summarizes the intensities of a point set.
type Stats struct {
	TotalPoints      int     `json:"totalPoints"`
	MaxIntensity     float64 `json:"maxIntensity"`
	MinIntensity     float64 `json:"minIntensity"`
	AverageIntensity float64 `json:"averageIntensity"`
}

// Summarize computes point statistics. An empty set yields all zeros.
func Summarize(points []Point) Stats {
	if len(points) == 0 {
		return Stats{}
	}
	stats := Stats{
		TotalPoints:  len(points),
		MaxIntensity: points[0].Intensity,
		MinIntensity: points[0].Intensity,
	}
	var sum float64
	for _, p := range points {
		stats.MaxIntensity = max(stats.MaxIntensity, p.Intensity)
		stats.MinIntensity = min(stats.MinIntensity, p.Intensity)
		sum += p.Intensity
	}
	stats.AverageIntensity = sum / float64(len(points))
	return stats
}

// Layer is the payload handed to a heatmap renderer.
type Layer struct {
	Analysis AnalysisType `json:"analysis"`
	Settings Settings     `json:"settings"`
	Points   []Point      `json:"points"`
	Stats    Stats        `json:"stats"`
}

// BuildLayer generates points and their statistics under the given settings.
func BuildLayer(incidents []Incident, hazards []Hazard, analysis AnalysisType, settings Settings, now time.Time) Layer {
	points := Generate(incidents, hazards, analysis, now)
	return Layer{
		Analysis: analysis.Normalize(),
		Settings: settings,
		Points:   points,
		Stats:    Summarize(points),
	}
}

// Table renders the layer as fixed-precision text, one point per line.
// The CLI prints it and golden tests compare it.
func (l Layer) Table() string {
	var b strings.Builder
	fmt.Fprintf(&b, "analysis %s\n", l.Analysis)
	for _, p := range l.Points {
		fmt.Fprintf(&b, "%.4f %.4f %.4f\n", p.Lat, p.Lng, p.Intensity)
	}
	fmt.Fprintf(&b, "points %d max %.4f min %.4f avg %.4f\n",
		l.Stats.TotalPoints, l.Stats.MaxIntensity, l.Stats.MinIntensity, l.Stats.AverageIntensity)
	return b.String()
}
