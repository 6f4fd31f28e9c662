package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadwatch/internal/record"
)

func TestLoadFile_JSON(t *testing.T) {
	recs, err := LoadFile("testdata/accidents.json")
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, record.Number(11), recs[0]["id"])
	assert.Equal(t, record.String("متوسط"), recs[0]["severity"])
	assert.Equal(t, record.List{record.Number(19.7333), record.Number(41.3833)}, recs[0]["coordinates"])
}

func TestLoadFile_YAML(t *testing.T) {
	recs, err := LoadFile("testdata/blackspots.yaml")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, record.Number(8.2), recs[0]["riskScore"])
	assert.Equal(t, record.String("2024-01-12"), recs[0]["lastAccident"])
	assert.Equal(t, record.List{}, recs[1]["recommendations"])
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("testdata/accidents.csv")
	assert.ErrorContains(t, err, "unsupported dataset extension")

	_, err = LoadFile("testdata/missing.json")
	assert.ErrorContains(t, err, "read dataset")

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("roads: {}\n"), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "parse YAML dataset")

	scalars := filepath.Join(dir, "scalars.json")
	require.NoError(t, os.WriteFile(scalars, []byte(`[1, 2]`), 0o644))
	_, err = LoadFile(scalars)
	assert.ErrorContains(t, err, "expected object")
}

func TestDecode_EmptyYAML(t *testing.T) {
	recs, err := Decode(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestWrite_RoundTrip(t *testing.T) {
	recs, err := LoadFile("testdata/accidents.json")
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, recs, format))

			got, err := Decode(buf.Bytes(), format)
			require.NoError(t, err)
			if diff := cmp.Diff(recs, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrite_JSONKeepsArabicAndAmpersands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []record.Object{{"cause": record.String("سرعة & ضباب")}}, FormatJSON))
	assert.Contains(t, buf.String(), "سرعة & ضباب")
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
}
