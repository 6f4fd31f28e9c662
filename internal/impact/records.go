package impact

import (
	"fmt"

	"github.com/roach88/roadwatch/internal/record"
)

// Record field names read by ProjectsFromRecords.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldGovernorate = "governorate"
	FieldStatus      = "status"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldBudget      = "budget"
	FieldActualCost  = "actualCost"
	FieldBefore      = "beforeData"
	FieldAfter       = "afterData"
)

// Skipped reports a record ProjectsFromRecords could not read.
type Skipped struct {
	Index  int
	Reason string
}

func (s Skipped) String() string {
	return fmt.Sprintf("record %d: %s", s.Index, s.Reason)
}

// ProjectsFromRecords reads projects with beforeData and afterData objects
// of numeric readings. Budget, cost and dates are optional. Records without
// both readings, or with a non-numeric reading, are skipped and reported.
func ProjectsFromRecords(recs []record.Object) ([]Project, []Skipped) {
	var (
		out     = make([]Project, 0, len(recs))
		skipped []Skipped
	)
	for i, rec := range recs {
		p, err := projectFromRecord(i, rec)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		out = append(out, p)
	}
	return out, skipped
}

func projectFromRecord(i int, rec record.Object) (Project, error) {
	p := Project{
		ID:          text(rec, FieldID),
		Title:       text(rec, FieldTitle),
		Governorate: text(rec, FieldGovernorate),
		Status:      text(rec, FieldStatus),
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("project_%d", i+1)
	}
	if v, ok := record.Lookup(rec, FieldStartDate); ok {
		p.StartDate, _ = record.ToTime(v)
	}
	if v, ok := record.Lookup(rec, FieldEndDate); ok {
		p.EndDate, _ = record.ToTime(v)
	}
	if v, ok := record.Lookup(rec, FieldBudget); ok {
		p.Budget, _ = record.ToNumber(v)
	}
	if v, ok := record.Lookup(rec, FieldActualCost); ok {
		p.ActualCost, _ = record.ToNumber(v)
	}

	var err error
	if p.Before, err = readings(rec, FieldBefore); err != nil {
		return Project{}, err
	}
	if p.After, err = readings(rec, FieldAfter); err != nil {
		return Project{}, err
	}
	return p, nil
}

func readings(rec record.Object, field string) (map[string]float64, error) {
	v, ok := record.Lookup(rec, field)
	if !record.Present(v, ok) {
		return nil, fmt.Errorf("missing %s", field)
	}
	obj, isObject := v.(record.Object)
	if !isObject {
		return nil, fmt.Errorf("%s must be an object, got %s", field, record.Describe(v))
	}
	out := make(map[string]float64, len(obj))
	for _, key := range obj.SortedKeys() {
		n, isNumber := record.ToNumber(obj[key])
		if !isNumber {
			return nil, fmt.Errorf("%s.%s must be numeric, got %s", field, key, record.Describe(obj[key]))
		}
		out[key] = n
	}
	return out, nil
}

func text(rec record.Object, field string) string {
	v, ok := record.Lookup(rec, field)
	if !record.Present(v, ok) {
		return ""
	}
	s, _ := record.Text(v)
	return s
}
