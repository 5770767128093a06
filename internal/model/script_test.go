package model

import (
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nativeBasicDoc = `{
  "type": "youtube_native_basic",
  "hook": {"primary": "O segredo que ninguém te contou", "type": "curiosity_gap", "estimated_retention": "78%"},
  "narrative_flow": {
    "identification": {"content": "Você já passou por isso?", "engagement_elements": ["Pergunta retórica"]},
    "solution": {"content": "O método em 3 passos", "value_delivery": ["Framework específico"]}
  },
  "cta_strategy": {"primary": "Comente sua dúvida"},
  "retention_optimization": {"pattern_interrupts": ["0:45", "2:15"], "value_payoffs": ["1:00"], "open_loops": []},
  "framework_type": "youtube_native",
  "generatedAt": "2025-01-01T00:00:00Z",
  "promptVersion": "v3.0-youtube-native"
}`

const traditionalPremiumDoc = `{
  "type": "traditional_premium",
  "hook": "Como dobrar suas vendas",
  "mainContent": {"sections": [{"title": "Intro", "content": "Primeiro passo"}]},
  "engagementTips": ["Pergunte algo"],
  "channelPersonalization": {"basedOnTopVideos": ["Video A"], "successPatterns": ["listas"]}
}`

const generatorPremiumDoc = `{
  "type": "traditional_premium",
  "hook": "Como organizar sua semana",
  "postingRecommendations": {"bestTime": "18h", "bestDay": "sexta", "seasonality": "segredo revelado"},
  "performancePrediction": {"expectedViews": "10k", "expectedEngagement": "5%", "confidenceLevel": "alta", "factors": ["história pessoal chocante"]},
  "framework_type": "traditional",
  "generatedAt": "2025-01-01T00:00:00Z",
  "promptVersion": "v2.0"
}`

func TestParseScript_Variants(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		variant Variant
	}{
		{"native basic", nativeBasicDoc, VariantYouTubeNativeBasic},
		{"native premium", `{"type":"youtube_native_premium","hook_system":{"primary":"x"}}`, VariantYouTubeNativePremium},
		{"traditional basic", `{"type":"traditional_basic","hook":"x"}`, VariantTraditionalBasic},
		{"traditional premium", traditionalPremiumDoc, VariantTraditionalPremium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScript([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.variant, s.Variant())
		})
	}
}

func TestParseScript_NativeBasicFields(t *testing.T) {
	s, err := ParseScript([]byte(nativeBasicDoc))
	require.NoError(t, err)

	nb, ok := s.(*YouTubeNativeBasic)
	require.True(t, ok)
	assert.Equal(t, "O segredo que ninguém te contou", nb.Hook.Primary)
	require.NotNil(t, nb.NarrativeFlow)
	assert.NotNil(t, nb.NarrativeFlow.Identification)
	assert.NotNil(t, nb.NarrativeFlow.Solution)
	assert.Nil(t, nb.NarrativeFlow.Implementation)
	require.NotNil(t, nb.RetentionOptimization)
	assert.Len(t, nb.RetentionOptimization.PatternInterrupts, 2)
	assert.Empty(t, nb.RetentionOptimization.OpenLoops)
	assert.Equal(t, "v3.0-youtube-native", nb.PromptVersion)
}

func TestParseScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"null", "null"},
		{"not json", "{"},
		{"missing type", `{"hook":"x"}`},
		{"unknown type", `{"type":"tiktok_basic"}`},
		{"framework conflict", `{"type":"traditional_basic","framework_type":"youtube_native"}`},
		{"wrong field shape", `{"type":"traditional_basic","mainPoints":"x"}`},
		{"hook of wrong kind", `{"type":"youtube_native_basic","hook":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidScript))
		})
	}
}

func TestScript_MarshalStampsDiscriminator(t *testing.T) {
	s := &TraditionalBasic{Hook: "hello"}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "traditional_basic", out["type"])
	assert.Equal(t, "traditional", out["framework_type"])
	assert.Equal(t, "hello", out["hook"])

	// The receiver is left untouched.
	assert.Empty(t, s.Type)
}

func TestScript_RoundTrip(t *testing.T) {
	s, err := ParseScript([]byte(traditionalPremiumDoc))
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	again, err := ParseScript(data)
	require.NoError(t, err)
	assert.IsType(t, &TraditionalPremium{}, again)

	redone, err := json.Marshal(again)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(redone))
}

func TestParseScript_HookShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"native record", `{"type":"youtube_native_basic","hook":{"primary":"O segredo"}}`, "O segredo"},
		{"native plain line", `{"type":"youtube_native_basic","hook":"O segredo que ninguém te contou?"}`, "O segredo que ninguém te contou?"},
		{"traditional plain line", `{"type":"traditional_basic","hook":"Como vender"}`, "Como vender"},
		{"traditional record", `{"type":"traditional_premium","hook":{"primary":"Como vender","type":"curiosity_gap"}}`, "Como vender"},
		{"missing hook", `{"type":"traditional_basic"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScript([]byte(tt.doc))
			require.NoError(t, err)

			var got string
			switch v := s.(type) {
			case *YouTubeNativeBasic:
				got = v.Hook.Primary
			case *TraditionalBasic:
				got = string(v.Hook)
			case *TraditionalPremium:
				got = string(v.Hook)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScript_NativeHookRecordFields(t *testing.T) {
	s, err := ParseScript([]byte(nativeBasicDoc))
	require.NoError(t, err)

	hook := s.(*YouTubeNativeBasic).Hook
	assert.Equal(t, "curiosity_gap", hook.Type)
	assert.Equal(t, "78%", hook.EstimatedRetention)
}

func TestParseScript_KeepsDocument(t *testing.T) {
	s, err := ParseScript([]byte("  " + generatorPremiumDoc + "\n"))
	require.NoError(t, err)

	assert.JSONEq(t, generatorPremiumDoc, string(s.Document()))

	tp := s.(*TraditionalPremium)
	assert.JSONEq(t, `{"bestTime":"18h","bestDay":"sexta","seasonality":"segredo revelado"}`, string(tp.PostingRecommendations))
	assert.JSONEq(t, `{"expectedViews":"10k","expectedEngagement":"5%","confidenceLevel":"alta","factors":["história pessoal chocante"]}`,
		string(tp.PerformancePrediction))

	assert.Nil(t, (&TraditionalBasic{Hook: "x"}).Document())
}

func TestMainContent_HasSections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"no main content", `{"type":"traditional_premium","hook":"x"}`, false},
		{"main content without sections", `{"type":"traditional_premium","mainContent":{}}`, false},
		{"empty sections", `{"type":"traditional_premium","mainContent":{"sections":[]}}`, true},
		{"with sections", traditionalPremiumDoc, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScript([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.(*TraditionalPremium).MainContent.HasSections())
		})
	}
}

func TestVariant(t *testing.T) {
	tests := []struct {
		variant    Variant
		framework  FrameworkType
		premium    bool
		scriptType string
	}{
		{VariantYouTubeNativeBasic, FrameworkYouTubeNative, false, "basic"},
		{VariantYouTubeNativePremium, FrameworkYouTubeNative, true, "premium"},
		{VariantTraditionalBasic, FrameworkTraditional, false, "basic"},
		{VariantTraditionalPremium, FrameworkTraditional, true, "premium"},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			assert.True(t, tt.variant.Valid())
			assert.Equal(t, tt.framework, tt.variant.Framework())
			assert.Equal(t, tt.premium, tt.variant.IsPremium())
			assert.Equal(t, tt.scriptType, tt.variant.ScriptType())
		})
	}

	assert.False(t, Variant("").Valid())
}

func TestTextLeaves(t *testing.T) {
	s, err := ParseScript([]byte(nativeBasicDoc))
	require.NoError(t, err)

	leaves := TextLeaves(s)
	assert.Equal(t, "O segredo que ninguém te contou", leaves[0])
	assert.Contains(t, leaves, "Pergunta retórica")
	assert.Contains(t, leaves, "2:15")
	assert.NotContains(t, leaves, "v3.0-youtube-native")
	assert.NotContains(t, leaves, "")
}

func TestTextLeaves_TraditionalPremium(t *testing.T) {
	s, err := ParseScript([]byte(traditionalPremiumDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Como dobrar suas vendas",
		"Intro", "Primeiro passo",
		"Pergunte algo",
		"Video A", "listas",
	}, TextLeaves(s))
}

func TestTextLeaves_GeneratorBlocks(t *testing.T) {
	s, err := ParseScript([]byte(generatorPremiumDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Como organizar sua semana",
		"18h", "sexta", "segredo revelado",
		"10k", "5%", "alta", "história pessoal chocante",
	}, TextLeaves(s))
}

func TestTextLeaves_NativePremiumForecast(t *testing.T) {
	s, err := ParseScript([]byte(`{
  "type": "youtube_native_premium",
  "hook_system": {"primary": "Por que isso falha"},
  "performance_prediction": {
    "estimated_metrics": {"retention_rate": "70%", "engagement_rate": 4.5},
    "confidence_level": "medium",
    "success_factors": ["Hook forte"]
  }
}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Por que isso falha", "70%", "medium", "Hook forte"}, TextLeaves(s))
}

func TestTextLeaves_UndeclaredFields(t *testing.T) {
	s, err := ParseScript([]byte(`{
  "type": "traditional_basic",
  "hook": "Como vender",
  "bonusNotes": {"ideas": ["Conte sua história", {"deep": "final"}], "count": 3, "ok": true},
  "PromptVersion": "v1.0",
  "cta": "Inscreva-se"
}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Como vender", "Inscreva-se", "Conte sua história", "final"}, TextLeaves(s))
}
