package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/script-analytics/internal/model"
	"github.com/sells-group/script-analytics/internal/service"
)

func resetAnalyzeFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		analyzeChannel, analyzeFormat, analyzeSave, analyzeUser, analyzeIdea = "", "json", false, "", ""
		reportUser, reportFormat = "", "json"
	})
}

func TestReadScript(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "s.json"), nativeScriptJSON)

	s, err := readScript(path, nil)
	require.NoError(t, err)
	assert.Equal(t, model.VariantYouTubeNativeBasic, s.Variant())

	s, err = readScript("-", strings.NewReader(`{"type":"traditional_basic","hook":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, model.VariantTraditionalBasic, s.Variant())

	_, err = readScript(filepath.Join(dir, "missing.json"), nil)
	assert.Error(t, err)

	bad := writeFile(t, filepath.Join(dir, "bad.json"), `{"type":"podcast"}`)
	_, err = readScript(bad, nil)
	assert.True(t, eris.Is(err, model.ErrInvalidScript))
}

func TestLoadChannel(t *testing.T) {
	ch, err := loadChannel("")
	require.NoError(t, err)
	assert.Nil(t, ch)

	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "ch.json"), `{"niche":"tech","average_engagement_rate":4.5}`)
	ch, err = loadChannel(path)
	require.NoError(t, err)
	assert.Equal(t, "tech", ch.Niche)
	require.NotNil(t, ch.AverageEngagementRate)
	assert.InDelta(t, 4.5, *ch.AverageEngagementRate, 1e-9)

	_, err = loadChannel(writeFile(t, filepath.Join(dir, "bad.json"), `{`))
	assert.Error(t, err)
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	dir := inTempDir(t)
	resetAnalyzeFlags(t)
	path := writeFile(t, filepath.Join(dir, "s.json"), nativeScriptJSON)

	out, err := execute(t, "analyze", path)
	require.NoError(t, err)

	var a model.ScriptAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, model.ConfidenceLow, a.ConfidenceLevel)
	assert.GreaterOrEqual(t, a.RetentionPrediction, 35)
}

func TestAnalyzeCommand_TableAndYAML(t *testing.T) {
	dir := inTempDir(t)
	resetAnalyzeFlags(t)
	path := writeFile(t, filepath.Join(dir, "s.json"), nativeScriptJSON)

	out, err := execute(t, "analyze", path, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "youtube_native_basic")

	out, err = execute(t, "analyze", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "hook_strength:")

	_, err = execute(t, "analyze", path, "--format", "xml")
	assert.Error(t, err)
}

func TestAnalyzeCommand_SaveAndReport(t *testing.T) {
	dir := inTempDir(t)
	resetAnalyzeFlags(t)
	path := writeFile(t, filepath.Join(dir, "s.json"), nativeScriptJSON)

	_, err := execute(t, "analyze", path, "--save")
	assert.True(t, eris.Is(err, service.ErrMissingUser))

	out, err := execute(t, "analyze", path, "--save", "--user", "user-1", "--idea", "idea-1")
	require.NoError(t, err)
	var saved struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	assert.NotEmpty(t, saved.ID)

	_, err = execute(t, "analyze", path, "--save", "--user", "user-1", "--idea", "idea-1")
	assert.True(t, eris.Is(err, service.ErrDuplicateScript))

	out, err = execute(t, "report", "summary", "--user", "user-1")
	require.NoError(t, err)
	var sum map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.EqualValues(t, 1, sum["total_scripts"])

	out, err = execute(t, "report", "comparison", "--user", "user-1", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "youtube_native:")
}
