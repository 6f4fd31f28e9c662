package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpact_Text(t *testing.T) {
	out, err := execute(t, NewImpactCommand(textOpts()), projectsPath)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ 1 تطوير تقاطع طريق الملك فهد الرئيسي: cost saving 6.0%\n")
	assert.Contains(t, out, "  + accidents        45 → 18 (+60.0%)\n")
	assert.Contains(t, out, "  + satisfactionRate 45 → 82 (+82.2%)\n")
	assert.Contains(t, out, "  - averageSpeed     85 → 65 (-23.5%)\n")
	assert.Contains(t, out, "✓ 3 تحسين الإضاءة في طريق المندق الجبلي: cost saving 43.8%\n")
}

func TestImpact_SingleProjectJSON(t *testing.T) {
	out, err := execute(t, NewImpactCommand(jsonOpts()), "--project", "2", projectsPath)
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)

	projects := data["projects"].([]any)
	require.Len(t, projects, 1)
	p := projects[0].(map[string]any)
	assert.Equal(t, "baljurashi", p["governorate"])
	assert.Equal(t, float64(90), p["durationDays"])

	changes := p["changes"].([]any)
	require.Len(t, changes, 9)
	fatalities := changes[1].(map[string]any)
	assert.Equal(t, "fatalities", fatalities["key"])
	assert.Equal(t, "عدد الوفيات", fatalities["label"])
	assert.Equal(t, float64(75), fatalities["improvement"])

	assert.Len(t, p["performance"], 6)
}

func TestImpact_UnknownProject(t *testing.T) {
	out, err := execute(t, NewImpactCommand(jsonOpts()), "--project", "9", projectsPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeUsage, resp.Error.Code)
}

func TestImpact_MissingDataset(t *testing.T) {
	out, err := execute(t, NewImpactCommand(jsonOpts()), "missing.json")
	require.Error(t, err)

	resp, _ := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeDataset, resp.Error.Code)
}
