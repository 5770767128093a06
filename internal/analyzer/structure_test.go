package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/script-analytics/internal/model"
)

func TestNarrativeScore(t *testing.T) {
	tests := []struct {
		name   string
		script model.Script
		want   int
	}{
		{"native basic clamped", func() model.Script {
			s := nativeBasic()
			s.NarrativeFlow.Implementation = &model.FlowSegment{Content: "Faça hoje"}
			return s
		}(), 100},
		{"native basic one segment", &model.YouTubeNativeBasic{
			NarrativeFlow: &model.NarrativeFlow{Identification: &model.FlowSegment{Content: "x"}},
		}, 80},
		{"native basic empty flow", &model.YouTubeNativeBasic{NarrativeFlow: &model.NarrativeFlow{}}, 70},
		{"native basic no flow", &model.YouTubeNativeBasic{}, 50},
		{"native premium one engaging act", nativePremium(), 95},
		{"traditional two sections", traditionalPremium(), 66},
		{"traditional many sections", &model.TraditionalPremium{
			MainContent: &model.MainContent{Sections: make([]model.Section, 10)},
		}, 75},
		{"traditional empty sections", &model.TraditionalPremium{
			MainContent: &model.MainContent{Sections: []model.Section{}},
		}, 60},
		{"traditional main content without sections", &model.TraditionalPremium{MainContent: &model.MainContent{}}, 50},
		{"traditional basic", &model.TraditionalBasic{Hook: "x"}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NarrativeScore(tt.script))
		})
	}
}

func TestAlgorithmScore(t *testing.T) {
	tests := []struct {
		name   string
		script model.Script
		want   int
	}{
		{"native basic all techniques", &model.YouTubeNativeBasic{
			RetentionOptimization: &model.RetentionOptimization{
				PatternInterrupts: []string{"0:30"},
				ValuePayoffs:      []string{"1:00"},
				OpenLoops:         []string{"0:10"},
			},
		}, 90},
		{"native basic fixture", nativeBasic(), 80},
		{"native basic empty lists", &model.YouTubeNativeBasic{RetentionOptimization: &model.RetentionOptimization{}}, 50},
		{"native premium", nativePremium(), 75},
		{"traditional three tips", traditionalPremium(), 59},
		{"traditional tips capped", &model.TraditionalPremium{EngagementTips: make([]string, 10)}, 70},
		{"traditional basic", &model.TraditionalBasic{}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlgorithmScore(tt.script))
		})
	}
}

func TestPersonalizationScore(t *testing.T) {
	channel := &model.ChannelContext{Niche: "tech"}

	tests := []struct {
		name    string
		script  model.Script
		channel *model.ChannelContext
		want    int
	}{
		{"no context premium", nativePremium(), nil, 50},
		{"no context traditional", traditionalPremium(), nil, 50},
		{"native premium both blocks", nativePremium(), channel, 80},
		{"native premium adaptation only", &model.YouTubeNativePremium{
			Personalization: &model.Personalization{ChannelAdaptation: &model.ChannelAdaptation{}},
		}, channel, 70},
		{"traditional both lists", traditionalPremium(), channel, 80},
		{"traditional top videos only", &model.TraditionalPremium{
			ChannelPersonalization: &model.ChannelPersonalization{BasedOnTopVideos: []string{"a"}},
		}, channel, 65},
		{"native basic", nativeBasic(), channel, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PersonalizationScore(tt.script, tt.channel))
		})
	}
}

func TestPresenceSignals(t *testing.T) {
	assert.Equal(t, StructureNative, StructurePresence(nativeBasic()))
	assert.Equal(t, StructureNative, StructurePresence(nativePremium()))
	assert.Equal(t, StructureTraditional, StructurePresence(traditionalPremium()))
	assert.Equal(t, StructureNone, StructurePresence(&model.TraditionalBasic{}))
	assert.Equal(t, StructureNone, StructurePresence(&model.TraditionalPremium{MainContent: &model.MainContent{}}))

	assert.Equal(t, EngagementOptimization, EngagementPresence(nativeBasic()))
	assert.Equal(t, EngagementOptimization, EngagementPresence(nativePremium()))
	assert.Equal(t, EngagementTips, EngagementPresence(traditionalPremium()))
	assert.Equal(t, EngagementNone, EngagementPresence(&model.TraditionalPremium{}))
}

func TestHookText(t *testing.T) {
	assert.Equal(t, "O segredo do app que 3 pessoas usam todo dia?", HookText(nativeBasic()))
	assert.Equal(t, "Por que todo mundo erra isso", HookText(nativePremium()))
	assert.Equal(t, "Como organizar sua semana", HookText(traditionalPremium()))
	assert.Equal(t, "plain", HookText(&model.TraditionalBasic{Hook: "plain"}))
	assert.Empty(t, HookText(nil))
}
