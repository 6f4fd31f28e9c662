package cli

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadwatch/internal/dataset"
	"github.com/roach88/roadwatch/internal/record"
)

func importAccidents(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "roadwatch.db")
	_, err := execute(t, NewImportCommand(textOpts()), "--db", db, accidentsPath)
	require.NoError(t, err)
	return db
}

func TestExport_RoundTripsThroughYAMLFile(t *testing.T) {
	db := importAccidents(t)
	outPath := filepath.Join(t.TempDir(), "accidents.yaml")

	out, err := execute(t, NewExportCommand(textOpts()), "--db", db, "-c", "accidents", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Exported 5 record(s) from accidents to "+outPath)

	want, err := dataset.LoadFile(accidentsPath)
	require.NoError(t, err)
	got, err := dataset.LoadFile(outPath)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		if !record.Equal(want[i], got[i]) {
			t.Errorf("record %d differs (-want +got):\n%s", i, cmp.Diff(record.ToAny(want[i]), record.ToAny(got[i])))
		}
	}
}

func TestExport_FilteredToStdout(t *testing.T) {
	db := importAccidents(t)

	out, err := execute(t, NewExportCommand(textOpts()),
		"--db", db, "-c", "accidents", "--preset", "accidents", "-w", "type=تصادم")
	require.NoError(t, err)

	recs, err := dataset.Decode([]byte(out), dataset.FormatJSON)
	require.NoError(t, err)
	var got []float64
	for _, rec := range recs {
		n, _ := record.ToNumber(rec["id"])
		got = append(got, n)
	}
	assert.Equal(t, []float64{11, 13, 15}, got)
}

func TestExport_JSONFormatWrapsRecords(t *testing.T) {
	db := importAccidents(t)

	out, err := execute(t, NewExportCommand(jsonOpts()), "--db", db, "-c", "accidents", "--preset", "accidents", "-w", "minFatalities=1")
	require.NoError(t, err)

	resp, _ := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []float64{12}, idsOf(t, resp.Data))
}

func TestExport_Snapshots(t *testing.T) {
	db := importAccidents(t)

	out, err := execute(t, NewExportCommand(textOpts()), "--db", db, "-c", "accidents", "--snapshots")
	require.NoError(t, err)
	assert.Equal(t, "No snapshots for accidents.\n", out)

	_, err = execute(t, NewFilterCommand(textOpts()),
		"--db", db, "-c", "accidents", "--preset", "accidents", "-w", "severity=بسيط", "--save", "--now", "2024-06-01")
	require.NoError(t, err)

	out, err = execute(t, NewExportCommand(jsonOpts()), "--db", db, "-c", "accidents", "--snapshots")
	require.NoError(t, err)

	resp, _ := decodeResponse(t, out)
	list, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	stored := list[0].(map[string]any)
	assert.Equal(t, "accidents", stored["collection"])
	snap := stored["snapshot"].(map[string]any)
	assert.Equal(t, map[string]any{"severity": "بسيط"}, snap["filters"])
	assert.Equal(t, float64(1), snap["resultCount"])
}

func TestExport_ListEmptyStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	out, err := execute(t, NewExportCommand(textOpts()), "--db", db, "--list")
	require.NoError(t, err)
	assert.Equal(t, "No collections.\n", out)
}

func TestExport_Errors(t *testing.T) {
	db := importAccidents(t)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no collection", []string{"--db", db}, CodeUsage},
		{"bad out extension", []string{"--db", db, "-c", "accidents", "--out", "accidents.csv"}, CodeUsage},
		{"bad as", []string{"--db", db, "-c", "accidents", "--as", "csv"}, CodeUsage},
		{"unknown filter", []string{"--db", db, "-c", "accidents", "--preset", "accidents", "-w", "speed=1"}, CodeFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewExportCommand(jsonOpts()), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			resp, _ := decodeResponse(t, out)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
