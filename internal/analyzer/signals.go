package analyzer

import "github.com/sells-group/script-analytics/internal/model"

// Structure presence levels fed to the retention predictor.
const (
	StructureNone        = 0
	StructureTraditional = 60
	StructureNative      = 75
)

// Engagement-optimization presence levels fed to the retention predictor.
const (
	EngagementNone         = 0
	EngagementTips         = 65
	EngagementOptimization = 80
)

// HookText returns the primary hook line, or "" when the script has none.
func HookText(s model.Script) string {
	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		return v.Hook.Primary
	case *model.YouTubeNativePremium:
		return v.HookSystem.Primary
	case *model.TraditionalBasic:
		return string(v.Hook)
	case *model.TraditionalPremium:
		return string(v.Hook)
	}
	return ""
}

// StructurePresence reduces the script body to a categorical level.
func StructurePresence(s model.Script) int {
	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		if v.NarrativeFlow != nil {
			return StructureNative
		}
	case *model.YouTubeNativePremium:
		if v.NarrativeStructure != nil {
			return StructureNative
		}
	case *model.TraditionalPremium:
		if v.MainContent.HasSections() {
			return StructureTraditional
		}
	}
	return StructureNone
}

// EngagementPresence reduces the script's retention tooling to a
// categorical level.
func EngagementPresence(s model.Script) int {
	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		if v.RetentionOptimization != nil {
			return EngagementOptimization
		}
	case *model.YouTubeNativePremium:
		if v.OptimizationData != nil {
			return EngagementOptimization
		}
	case *model.TraditionalPremium:
		if len(v.EngagementTips) > 0 {
			return EngagementTips
		}
	}
	return EngagementNone
}

// HasValueDelivery reports whether the script carries a solution or main
// body that delivers the promised value.
func HasValueDelivery(s model.Script) bool {
	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		return v.NarrativeFlow != nil && v.NarrativeFlow.Solution != nil
	case *model.YouTubeNativePremium:
		return v.NarrativeStructure != nil && v.NarrativeStructure.Act2SolutionReveal != nil
	case *model.TraditionalPremium:
		return v.MainContent != nil
	}
	return false
}

// HasConversionStrategy reports whether a CTA or conversion plan exists.
func HasConversionStrategy(s model.Script) bool {
	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		return v.CTAStrategy != nil
	case *model.YouTubeNativePremium:
		return v.ConversionStrategy != nil
	}
	return false
}

// HasPersonalization reports whether a personalization block exists.
func HasPersonalization(s model.Script) bool {
	switch v := s.(type) {
	case *model.YouTubeNativePremium:
		return v.Personalization != nil
	case *model.TraditionalPremium:
		return v.ChannelPersonalization != nil
	}
	return false
}

// PatternInterrupts returns the scheduled pattern interrupt timestamps.
func PatternInterrupts(s model.Script) []string {
	if v, ok := s.(*model.YouTubeNativeBasic); ok && v.RetentionOptimization != nil {
		return v.RetentionOptimization.PatternInterrupts
	}
	return nil
}

// HasSoftCTAs reports whether the premium conversion plan lists soft CTAs.
func HasSoftCTAs(s model.Script) bool {
	v, ok := s.(*model.YouTubeNativePremium)
	return ok && v.ConversionStrategy != nil && len(v.ConversionStrategy.SoftCTAs) > 0
}

// isNative reports whether the script follows the youtube_native framework.
func isNative(s model.Script) bool {
	return s != nil && s.Variant().Framework() == model.FrameworkYouTubeNative
}

// isNilScript reports whether s is nil or a typed nil pointer.
func isNilScript(s model.Script) bool {
	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		return v == nil
	case *model.YouTubeNativePremium:
		return v == nil
	case *model.TraditionalBasic:
		return v == nil
	case *model.TraditionalPremium:
		return v == nil
	}
	return true
}
