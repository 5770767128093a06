package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/script-analytics/internal/cost"
	"github.com/sells-group/script-analytics/internal/model"
)

// Engagement hotspot and algorithm factor notes stored with a record.
const (
	hotspotHook              = "0:00-0:08 - Critical hook for retention"
	hotspotSolution          = "2:00-5:00 - Solution reveal (peak engagement)"
	hotspotInterruptFormat   = "%s - Pattern interrupt moment"
	factorRetentionStructure = "Retention-optimized structure"
	factorPsychologyHook     = "Psychology-based hook"
	factorPatternInterrupts  = "Scheduled pattern interrupts"
	factorValuePayoffs       = "Strategic value payoffs"
	factorValueCTAs          = "Non-intrusive value-based CTAs"
)

// BuildRecord flattens a script and its analysis into the persisted row.
// ID, UserID, IdeaID and CreatedAt are left for the caller.
func BuildRecord(s model.Script, a *model.ScriptAnalysis, rates cost.Rates) (*model.ScriptRecord, error) {
	if isNilScript(s) || a == nil {
		return nil, eris.Wrap(ErrInvalidInput, "analyzer: build record")
	}

	content := s.Document()
	if len(content) == 0 {
		var err error
		if content, err = json.Marshal(s); err != nil {
			return nil, eris.Wrap(err, "analyzer: marshal script")
		}
	}
	personalization, err := personalizationData(s)
	if err != nil {
		return nil, err
	}

	factors := make([]model.ViralFactor, len(a.ViralElements))
	for i, el := range a.ViralElements {
		factors[i] = model.ViralFactor{ID: i + 1, Factor: el.Label, Weight: el.Weight}
	}

	v := s.Variant()
	return &model.ScriptRecord{
		ScriptType:                 v.ScriptType(),
		FrameworkType:              v.Framework(),
		Content:                    content,
		HookStrength:               a.HookStrength,
		NarrativeFlowScore:         a.NarrativeScore,
		AlgorithmOptimizationScore: a.AlgorithmScore,
		RetentionScore:             a.OverallQualityScore,
		PredictedRetention:         a.RetentionPrediction,
		PredictedEngagement:        a.EngagementPrediction.ExpectedLikeRate,
		PredictedCTR:               a.PerformancePrediction.CTR,
		ConfidenceLevel:            a.ConfidenceLevel,
		EngagementPrediction:       a.EngagementPrediction,
		ViralFactors:               factors,
		OptimizationData: model.OptimizationSummary{
			RetentionCurvePrediction: fmt.Sprintf("%d%% based on hook strength and narrative flow", a.RetentionPrediction),
			EngagementHotspots:       EngagementHotspots(s),
			AlgorithmFactors:         AlgorithmFactors(s),
			ViralProbabilityScore:    len(a.ViralElements) * 15,
			PerformancePrediction:    a.PerformancePrediction,
		},
		PersonalizationData: personalization,
		GenerationCost:      cost.NewCalculator(rates).GenerationCost(v),
	}, nil
}

// EngagementHotspots lists the moments of a script expected to drive
// interaction.
func EngagementHotspots(s model.Script) []string {
	out := []string{}
	if HookText(s) != "" {
		out = append(out, hotspotHook)
	}
	if isNative(s) && HasValueDelivery(s) {
		out = append(out, hotspotSolution)
	}
	for _, ts := range PatternInterrupts(s) {
		out = append(out, fmt.Sprintf(hotspotInterruptFormat, ts))
	}
	return out
}

// AlgorithmFactors lists the algorithm-friendly techniques a script uses.
func AlgorithmFactors(s model.Script) []string {
	out := []string{}
	if isNative(s) {
		out = append(out, factorRetentionStructure, factorPsychologyHook)
	}
	basic, isBasic := s.(*model.YouTubeNativeBasic)
	if isBasic && basic.RetentionOptimization != nil {
		out = append(out, factorPatternInterrupts, factorValuePayoffs)
	}
	if HasSoftCTAs(s) || (isBasic && basic.CTAStrategy != nil) {
		out = append(out, factorValueCTAs)
	}
	return out
}

func personalizationData(s model.Script) (json.RawMessage, error) {
	var src any
	switch v := s.(type) {
	case *model.YouTubeNativePremium:
		if v.Personalization != nil {
			src = v.Personalization
		}
	case *model.TraditionalPremium:
		if v.ChannelPersonalization != nil {
			src = v.ChannelPersonalization
		}
	}
	if src == nil {
		return json.RawMessage(`{}`), nil
	}
	data, err := json.Marshal(src)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: marshal personalization")
	}
	return data, nil
}
