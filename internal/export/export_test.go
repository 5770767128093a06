package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/script-analytics/internal/model"
)

func sampleResults() []Result {
	return []Result{
		{
			File:    "scripts/a.json",
			Variant: model.VariantYouTubeNativeBasic,
			Analysis: &model.ScriptAnalysis{
				HookStrength:          88,
				NarrativeScore:        100,
				AlgorithmScore:        80,
				PersonalizedScore:     50,
				OverallQualityScore:   86,
				RetentionPrediction:   86,
				EngagementPrediction:  model.EngagementPrediction{ExpectedLikeRate: 6.6},
				ViralElements:         []model.ViralElement{{Label: "Exclusivity element", Weight: 20}, {Label: "Data-driven content", Weight: 14}},
				PerformancePrediction: model.PerformancePrediction{CTR: 10.16, EstimatedViews: 30465, ViralProbability: 52},
				ConfidenceLevel:       model.ConfidenceHigh,
			},
		},
		{File: "scripts/b.json", Error: "model: invalid script"},
	}
}

func TestRow(t *testing.T) {
	rows := sampleResults()

	got := Row(rows[0])
	require.Len(t, got, len(Header))
	assert.Equal(t, []string{
		"scripts/a.json", "youtube_native_basic", "88", "100", "80", "50", "86", "86",
		"6.6", "10.16", "30465", "52", "high", "Exclusivity element; Data-driven content", "",
	}, got)

	failed := Row(rows[1])
	require.Len(t, failed, len(Header))
	assert.Equal(t, "scripts/b.json", failed[0])
	assert.Equal(t, "model: invalid script", failed[len(failed)-1])
	assert.Empty(t, failed[2])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "88", records[1][2])
	assert.Equal(t, "model: invalid script", records[2][14])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResults()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "file", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "scripts/a.json", sheet.Rows[1].Cells[0].String())

	hook, err := sheet.Rows[1].Cells[2].Int()
	require.NoError(t, err)
	assert.Equal(t, 88, hook)

	ctr, err := sheet.Rows[1].Cells[9].Float()
	require.NoError(t, err)
	assert.InDelta(t, 10.16, ctr, 1e-9)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResults()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "youtube_native_basic", got[0]["variant"])
	assert.NotContains(t, got[0], "error")
	assert.NotContains(t, got[1], "analysis")

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleResults()))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "scripts/a.json", got[0]["file"])
	assert.Equal(t, "model: invalid script", got[1]["error"])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "Variant")
	assert.Contains(t, out, "youtube_native_basic")
	assert.Contains(t, out, "30465")
	assert.Contains(t, out, "error: model: invalid script")
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	for _, f := range []string{FormatJSON, FormatYAML, FormatCSV, FormatXLSX, FormatTable} {
		assert.NoError(t, Write(&bytes.Buffer{}, f, sampleResults()), f)
	}
}

func TestWriteYAMLValue_KeepsJSONNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAMLValue(&buf, sampleResults()[0].Analysis))

	out := buf.String()
	assert.Contains(t, out, "hook_strength: 88\n")
	assert.Contains(t, out, "confidence_level: high\n")
	assert.NotContains(t, out, "{")
}
