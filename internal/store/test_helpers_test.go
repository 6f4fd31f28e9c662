package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/roadwatch/internal/record"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testAccidents returns a small accident collection.
func testAccidents(t *testing.T) []record.Object {
	t.Helper()
	recs, err := record.DecodeObjects([]byte(`[
		{"id": 1, "location": "طريق الملك فهد", "severity": "مميت", "date": "2024-01-15", "fatalities": 2, "vehiclesInvolved": 2, "governorate": "albaha", "tags": ["night"]},
		{"id": 2, "location": "طريق بلجرشي", "severity": "خطير", "date": "2024-02-03", "fatalities": 0, "vehiclesInvolved": 1, "governorate": "baljurashi"},
		{"id": 3, "location": "طريق المطار", "severity": "بسيط", "date": "2024-02-20", "fatalities": "1", "vehiclesInvolved": " 3 ", "governorate": ["albaha", "aqiq"]},
		{"id": 4, "location": "المندق", "severity": "متوسط", "date": "bad", "fatalities": null, "vehiclesInvolved": true, "governorate": "almandaq"},
		{"id": 5, "location": "العقيق", "severity": "خطير", "fatalities": 3, "vehiclesInvolved": "0x1p1", "governorate": "aqiq"}
	]`))
	if err != nil {
		t.Fatalf("decode accidents: %v", err)
	}
	return recs
}

func recordIDs(recs []record.Object) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		n, _ := record.ToNumber(r["id"])
		out = append(out, n)
	}
	return out
}
