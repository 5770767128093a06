package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/script-analytics/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleRecord(user, idea string) *model.ScriptRecord {
	return &model.ScriptRecord{
		UserID:                     user,
		IdeaID:                     idea,
		ScriptType:                 "basic",
		FrameworkType:              model.FrameworkYouTubeNative,
		Content:                    []byte(`{"type":"youtube_native_basic","hook":{"primary":"x"}}`),
		HookStrength:               72,
		NarrativeFlowScore:         80,
		AlgorithmOptimizationScore: 65,
		RetentionScore:             73,
		PredictedRetention:         70,
		PredictedEngagement:        5.78,
		PredictedCTR:               8.1,
		ConfidenceLevel:            model.ConfidenceMedium,
		EngagementPrediction:       model.EngagementPrediction{ExpectedLikeRate: 5.78, ExpectedCommentRate: 1.44, ExpectedShareRate: 0.46, Multiplier: 1.65},
		ViralFactors:               []model.ViralFactor{{ID: 1, Factor: "Exclusivity element", Weight: 20}},
		OptimizationData: model.OptimizationSummary{
			RetentionCurvePrediction: "70% based on hook strength and narrative flow",
			EngagementHotspots:       []string{"0:00-0:08 - Critical hook for retention"},
			AlgorithmFactors:         []string{"Retention-optimized structure"},
			ViralProbabilityScore:    15,
			PerformancePrediction:    model.PerformancePrediction{CTR: 8.1, EstimatedViews: 22000, SubscriberConversion: 4.2, ViralProbability: 40},
		},
		GenerationCost: 0.03,
	}
}

func TestSQLite_SaveAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := sampleRecord("user-1", "idea-1")
	require.NoError(t, st.SaveScript(ctx, rec))
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())

	got, err := st.GetScript(ctx, "user-1", rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, model.FrameworkYouTubeNative, got.FrameworkType)
	assert.JSONEq(t, string(rec.Content), string(got.Content))
	assert.JSONEq(t, `{}`, string(got.PersonalizationData))
	assert.Equal(t, 72, got.HookStrength)
	assert.Equal(t, 73, got.RetentionScore)
	assert.InDelta(t, 5.78, got.PredictedEngagement, 1e-9)
	assert.Equal(t, model.ConfidenceMedium, got.ConfidenceLevel)
	assert.Equal(t, rec.EngagementPrediction, got.EngagementPrediction)
	assert.Equal(t, rec.ViralFactors, got.ViralFactors)
	assert.Equal(t, rec.OptimizationData, got.OptimizationData)
	assert.False(t, got.WasUsed)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_GetScript_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetScript(context.Background(), "user-1", "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ScopedToOwner(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := sampleRecord("user-1", "idea-1")
	require.NoError(t, st.SaveScript(ctx, rec))

	_, err := st.GetScript(ctx, "user-2", rec.ID)
	assert.True(t, eris.Is(err, ErrNotFound))
	err = st.MarkScriptUsed(ctx, "user-2", rec.ID)
	assert.True(t, eris.Is(err, ErrNotFound))

	got, err := st.GetScript(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.False(t, got.WasUsed)
}

func TestSQLite_SaveScript_Duplicate(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveScript(ctx, sampleRecord("user-1", "idea-1")))

	err := st.SaveScript(ctx, sampleRecord("user-1", "idea-1"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrDuplicate))

	// Different framework for the same idea is allowed.
	other := sampleRecord("user-1", "idea-1")
	other.FrameworkType = model.FrameworkTraditional
	require.NoError(t, st.SaveScript(ctx, other))

	// Scripts without an idea never collide.
	require.NoError(t, st.SaveScript(ctx, sampleRecord("user-1", "")))
	require.NoError(t, st.SaveScript(ctx, sampleRecord("user-1", "")))
}

func TestSQLite_MarkScriptUsed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := sampleRecord("user-1", "idea-1")
	require.NoError(t, st.SaveScript(ctx, rec))
	require.NoError(t, st.MarkScriptUsed(ctx, "user-1", rec.ID))

	got, err := st.GetScript(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.True(t, got.WasUsed)

	err = st.MarkScriptUsed(ctx, "user-1", "missing")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListScripts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, idea := range []string{"a", "b", "c"} {
		rec := sampleRecord("user-1", idea)
		rec.CreatedAt = base.Add(time.Duration(i) * 24 * time.Hour)
		if idea == "c" {
			rec.FrameworkType = model.FrameworkTraditional
		}
		require.NoError(t, st.SaveScript(ctx, rec))
	}
	require.NoError(t, st.SaveScript(ctx, sampleRecord("user-2", "a")))

	all, err := st.ListScripts(ctx, ScriptFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].IdeaID, "newest first")
	assert.Equal(t, "a", all[2].IdeaID)

	native, err := st.ListScripts(ctx, ScriptFilter{UserID: "user-1", FrameworkType: model.FrameworkYouTubeNative})
	require.NoError(t, err)
	assert.Len(t, native, 2)

	recent, err := st.ListScripts(ctx, ScriptFilter{UserID: "user-1", Since: base.Add(36 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "c", recent[0].IdeaID)

	page, err := st.ListScripts(ctx, ScriptFilter{UserID: "user-1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].IdeaID)

	none, err := st.ListScripts(ctx, ScriptFilter{UserID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
