package heatmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Stop is one color stop of a gradient; Offset is in [0, 1].
type Stop struct {
	Offset float64
	Color  string
}

// Gradient maps intensity to color. Stops are kept sorted by offset.
type Gradient []Stop

// MarshalJSON renders the gradient as the {"0.4": "#00ff00"} object heat
// layer renderers expect.
func (g Gradient) MarshalJSON() ([]byte, error) {
	sorted := slices.Clone(g)
	slices.SortFunc(sorted, func(a, b Stop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, stop := range sorted {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.FormatFloat(stop.Offset, 'f', -1, 64)))
		buf.WriteByte(':')
		color, err := json.Marshal(stop.Color)
		if err != nil {
			return nil, err
		}
		buf.Write(color)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Gradient presets offered by the heatmap controls.
var gradientPresets = []struct {
	Name     string
	Label    string
	Gradient Gradient
}{
	{"classic", "كلاسيكي", Gradient{
		{0.0, "#0000ff"}, {0.2, "#00ffff"}, {0.4, "#00ff00"},
		{0.6, "#ffff00"}, {0.8, "#ff8000"}, {1.0, "#ff0000"},
	}},
	{"mono", "أحادي اللون", Gradient{
		{0.0, "#ffffff"}, {0.3, "#ffcccc"}, {0.6, "#ff6666"}, {1.0, "#cc0000"},
	}},
	{"cool", "طيف بارد", Gradient{
		{0.0, "#000080"}, {0.3, "#0080ff"}, {0.6, "#00ffff"}, {1.0, "#80ffff"},
	}},
	{"warm", "طيف دافئ", Gradient{
		{0.0, "#800000"}, {0.3, "#ff4000"}, {0.6, "#ff8000"}, {1.0, "#ffff00"},
	}},
}

// GradientPreset returns a copy of the named preset gradient.
func GradientPreset(name string) (Gradient, bool) {
	for _, p := range gradientPresets {
		if p.Name == name {
			return slices.Clone(p.Gradient), true
		}
	}
	return nil, false
}

// GradientPresetNames lists preset names in menu order.
func GradientPresetNames() []string {
	names := make([]string, len(gradientPresets))
	for i, p := range gradientPresets {
		names[i] = p.Name
	}
	return names
}

// Settings are the renderer options of a heatmap layer.
type Settings struct {
	Radius     int      `json:"radius"`
	Blur       int      `json:"blur"`
	MaxZoom    int      `json:"maxZoom"`
	MinOpacity float64  `json:"minOpacity"`
	MaxOpacity float64  `json:"maxOpacity"`
	Gradient   Gradient `json:"gradient"`
}

// DefaultSettings returns the dashboard's default renderer options with the
// classic gradient.
func DefaultSettings() Settings {
	g, _ := GradientPreset("classic")
	return Settings{
		Radius:     25,
		Blur:       15,
		MaxZoom:    17,
		MinOpacity: 0.1,
		MaxOpacity: 0.8,
		Gradient:   g,
	}
}

// Validate checks that the settings can be handed to a renderer.
func (s Settings) Validate() error {
	var errs []error
	if s.Radius <= 0 {
		errs = append(errs, fmt.Errorf("radius must be positive, got %d", s.Radius))
	}
	if s.Blur < 0 {
		errs = append(errs, fmt.Errorf("blur must not be negative, got %d", s.Blur))
	}
	if s.MaxZoom <= 0 {
		errs = append(errs, fmt.Errorf("maxZoom must be positive, got %d", s.MaxZoom))
	}
	if s.MinOpacity < 0 || s.MinOpacity > 1 || s.MaxOpacity < 0 || s.MaxOpacity > 1 {
		errs = append(errs, fmt.Errorf("opacity must be within [0, 1], got min %v max %v", s.MinOpacity, s.MaxOpacity))
	} else if s.MinOpacity > s.MaxOpacity {
		errs = append(errs, fmt.Errorf("minOpacity %v exceeds maxOpacity %v", s.MinOpacity, s.MaxOpacity))
	}
	for _, stop := range s.Gradient {
		if stop.Offset < 0 || stop.Offset > 1 {
			errs = append(errs, fmt.Errorf("gradient offset %v outside [0, 1]", stop.Offset))
		}
	}
	return errors.Join(errs...)
}
