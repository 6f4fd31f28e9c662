package filter

import "strings"

// ActiveFilter is one active filter as shown to the user.
type ActiveFilter struct {
	Key          string
	Label        string
	DisplayValue string
	Value        Value
}

// ActiveFilters lists the active filters in descriptor order.
//
// Select and multiselect values are shown by option label, falling back to
// the raw value when no option matches; multiselect labels are joined with
// ", ". A freshly initialized state has no active filters.
func ActiveFilters(state State, descs []Descriptor) []ActiveFilter {
	var out []ActiveFilter
	for _, d := range descs {
		v := state[d.Key]
		if !IsActive(d, v) {
			continue
		}
		label := d.Label
		if label == "" {
			label = d.Key
		}
		out = append(out, ActiveFilter{
			Key:          d.Key,
			Label:        label,
			DisplayValue: DisplayValue(d, v),
			Value:        v,
		})
	}
	return out
}

// DisplayValue renders value for a filter chip.
func DisplayValue(d Descriptor, value Value) string {
	if value == nil {
		return ""
	}
	switch d.Kind {
	case KindSelect:
		raw, ok := asText(value)
		if !ok {
			return value.String()
		}
		if label, found := d.OptionLabel(raw); found {
			return label
		}
		return raw
	case KindMultiselect:
		choices := asChoices(value)
		labels := make([]string, len(choices))
		for i, c := range choices {
			if label, found := d.OptionLabel(c); found {
				labels[i] = label
			} else {
				labels[i] = c
			}
		}
		return strings.Join(labels, ", ")
	default:
		return value.String()
	}
}
