package heatmap

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Severity ranks incident outcomes.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityMinor
	SeverityModerate
	SeveritySerious
	SeverityFatal
)

// severityLabels maps the Arabic labels used by the traffic department and
// their English equivalents.
var severityLabels = map[string]Severity{
	"مميت":     SeverityFatal,
	"خطير":     SeveritySerious,
	"متوسط":    SeverityModerate,
	"بسيط":     SeverityMinor,
	"fatal":    SeverityFatal,
	"serious":  SeveritySerious,
	"moderate": SeverityModerate,
	"minor":    SeverityMinor,
}

// ParseSeverity maps a label to a Severity. Matching ignores surrounding
// space, ASCII case, and Unicode normalization form.
func ParseSeverity(label string) Severity {
	key := strings.ToLower(strings.TrimSpace(norm.NFC.String(label)))
	return severityLabels[key]
}

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySerious:
		return "serious"
	case SeverityModerate:
		return "moderate"
	case SeverityMinor:
		return "minor"
	default:
		return "unknown"
	}
}
