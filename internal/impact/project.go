package impact

import (
	"math"
	"time"
)

// Project is a completed or running intervention with indicator readings
// from before and after it.
type Project struct {
	ID          string
	Title       string
	Governorate string
	Status      string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	ActualCost  float64
	Before      map[string]float64
	After       map[string]float64
}

// Change is the before/after reading of one metric.
type Change struct {
	Metric
	Before      float64 `json:"before"`
	After       float64 `json:"after"`
	Improvement float64 `json:"improvement"`
}

// Improved reports whether the indicator got better.
func (c Change) Improved() bool {
	return c.Improvement > 0
}

// Score is one axis of the performance profile, 0-100 with 100 best.
type Score struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// Comparison is the before/after analysis of a project.
type Comparison struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Governorate  string   `json:"governorate,omitempty"`
	Status       string   `json:"status,omitempty"`
	DurationDays int      `json:"durationDays,omitempty"`
	Budget       float64  `json:"budget"`
	ActualCost   float64  `json:"actualCost"`
	CostSaving   float64  `json:"costSaving"`
	Changes      []Change `json:"changes"`
	Performance  []Score  `json:"performance"`
}

// Compare computes the change of every metric read both before and after
// the project, in Metrics order, and its performance profile. Metrics
// missing from either side are left out.
func Compare(p Project) Comparison {
	c := Comparison{
		ID:          p.ID,
		Title:       p.Title,
		Governorate: p.Governorate,
		Status:      p.Status,
		Budget:      p.Budget,
		ActualCost:  p.ActualCost,
		CostSaving:  CostSaving(p.Budget, p.ActualCost),
		Changes:     []Change{},
		Performance: []Score{},
	}
	if !p.StartDate.IsZero() && p.EndDate.After(p.StartDate) {
		c.DurationDays = int(math.Ceil(p.EndDate.Sub(p.StartDate).Hours() / 24))
	}

	for _, m := range metrics {
		before, okBefore := p.Before[m.Key]
		after, okAfter := p.After[m.Key]
		if !okBefore || !okAfter {
			continue
		}
		c.Changes = append(c.Changes, Change{
			Metric:      m,
			Before:      before,
			After:       after,
			Improvement: Improvement(before, after, m.HigherIsBetter),
		})
	}

	for _, a := range performanceAxes {
		before, okBefore := p.Before[a.key]
		after, okAfter := p.After[a.key]
		if !okBefore || !okAfter {
			continue
		}
		c.Performance = append(c.Performance, Score{
			Key:    a.key,
			Label:  a.label,
			Before: a.normalize(before),
			After:  a.normalize(after),
		})
	}
	return c
}
