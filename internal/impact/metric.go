package impact

// Metric is one indicator tracked before and after a project.
type Metric struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Unit  string `json:"unit"`

	// HigherIsBetter flips the sign of Improvement.
	HigherIsBetter bool `json:"higherIsBetter"`
}

// metrics are the tracked indicators in display order.
var metrics = []Metric{
	{Key: "accidents", Label: "عدد الحوادث", Unit: "حادث"},
	{Key: "fatalities", Label: "عدد الوفيات", Unit: "وفاة"},
	{Key: "injuries", Label: "عدد الإصابات", Unit: "إصابة"},
	{Key: "trafficFlow", Label: "تدفق المرور", Unit: "مركبة/يوم", HigherIsBetter: true},
	{Key: "averageSpeed", Label: "السرعة المتوسطة", Unit: "كم/س", HigherIsBetter: true},
	{Key: "congestionLevel", Label: "مستوى الازدحام", Unit: "%"},
	{Key: "responseTime", Label: "وقت الاستجابة", Unit: "دقيقة"},
	{Key: "satisfactionRate", Label: "معدل الرضا", Unit: "%", HigherIsBetter: true},
	{Key: "violationCount", Label: "عدد المخالفات", Unit: "مخالفة"},
}

// Improvement returns the relative change from before to after as a
// percentage, positive when the indicator got better. A zero baseline
// yields 0.
func Improvement(before, after float64, higherIsBetter bool) float64 {
	if before == 0 {
		return 0
	}
	improvement := (before - after) / before * 100
	if higherIsBetter {
		return -improvement
	}
	return improvement
}

// CostSaving returns how far under budget a project came, as a percentage
// of the budget. Overruns are negative; a project without a budget yields 0.
func CostSaving(budget, actualCost float64) float64 {
	if budget <= 0 {
		return 0
	}
	return (budget - actualCost) / budget * 100
}

// axis is one dimension of the performance profile, normalized against
// a regional ceiling.
type axis struct {
	key            string
	label          string
	ceiling        float64
	higherIsBetter bool
}

var performanceAxes = []axis{
	{"accidents", "السلامة", 100, false},
	{"trafficFlow", "تدفق المرور", 20000, true},
	{"averageSpeed", "السرعة المتوسطة", 100, true},
	{"responseTime", "وقت الاستجابة", 30, false},
	{"satisfactionRate", "الرضا", 100, true},
	{"congestionLevel", "الازدحام", 100, false},
}

// normalize maps a raw value onto 0-100 where 100 is best.
func (a axis) normalize(v float64) float64 {
	n := v / a.ceiling * 100
	if !a.higherIsBetter {
		n = 100 - n
	}
	return max(0, min(100, n))
}
