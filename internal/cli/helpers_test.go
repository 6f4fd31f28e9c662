package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var (
	accidentsPath  = filepath.Join("..", "dataset", "testdata", "accidents.json")
	blackspotsPath = filepath.Join("..", "dataset", "testdata", "blackspots.yaml")
	segmentsPath   = filepath.Join("..", "dataset", "testdata", "segments.yaml")
	projectsPath   = filepath.Join("..", "dataset", "testdata", "projects.json")
	roadsPath      = filepath.Join("..", "harness", "testdata", "data", "roads.json")
	validCatalog   = filepath.Join("..", "catalog", "testdata", "valid")
	scenariosDir   = filepath.Join("..", "harness", "testdata", "scenarios")
)

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse parses a JSON CLI response with a generic payload.
func decodeResponse(t *testing.T, output string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp), "output: %s", output)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

// idsOf extracts the "id" field of decoded records.
func idsOf(t *testing.T, records any) []float64 {
	t.Helper()
	list, ok := records.([]any)
	require.True(t, ok, "records must be a list, got %T", records)
	out := make([]float64, len(list))
	for i, r := range list {
		rec, ok := r.(map[string]any)
		require.True(t, ok)
		out[i], _ = rec["id"].(float64)
	}
	return out
}

func textOpts() *RootOptions {
	return &RootOptions{Format: "text"}
}

func jsonOpts() *RootOptions {
	return &RootOptions{Format: "json"}
}
