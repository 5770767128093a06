package analyzer

import "github.com/sells-group/script-analytics/internal/model"

// NarrativeScore rates how completely the script's narrative arc is laid out.
func NarrativeScore(s model.Script) int {
	score := 50

	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		if nf := v.NarrativeFlow; nf != nil {
			score += 20
			engaging := false
			for _, seg := range []*model.FlowSegment{nf.Identification, nf.Solution, nf.Implementation} {
				if seg == nil {
					continue
				}
				score += 10
				if len(seg.EngagementElements) > 0 {
					engaging = true
				}
			}
			if engaging {
				score += 15
			}
		}
	case *model.YouTubeNativePremium:
		if ns := v.NarrativeStructure; ns != nil {
			score += 20
			engaging := false
			for _, act := range []*model.Act{ns.Act1Identification, ns.Act2SolutionReveal, ns.Act3Implementation} {
				if act == nil {
					continue
				}
				score += 10
				if len(act.EngagementMechanics) > 0 {
					engaging = true
				}
			}
			if engaging {
				score += 15
			}
		}
	case *model.TraditionalPremium:
		if v.MainContent.HasSections() {
			score += 10 + min(15, len(v.MainContent.Sections)*3)
		}
	}

	return clampScore(score)
}

// AlgorithmScore rates the script's platform-algorithm tooling.
func AlgorithmScore(s model.Script) int {
	score := 50

	switch v := s.(type) {
	case *model.YouTubeNativeBasic:
		if ro := v.RetentionOptimization; ro != nil {
			if len(ro.PatternInterrupts) > 0 {
				score += 15
			}
			if len(ro.ValuePayoffs) > 0 {
				score += 15
			}
			if len(ro.OpenLoops) > 0 {
				score += 10
			}
		}
	case *model.YouTubeNativePremium:
		if od := v.OptimizationData; od != nil {
			if len(od.AlgorithmFactors) > 0 {
				score += 15
			}
			if len(od.EngagementHotspots) > 0 {
				score += 10
			}
		}
	case *model.TraditionalPremium:
		if len(v.EngagementTips) > 0 {
			score += min(20, len(v.EngagementTips)*3)
		}
	}

	return clampScore(score)
}

// PersonalizationScore rates how well the script adapts to the channel.
// Without channel context the score is always 50.
func PersonalizationScore(s model.Script, channel *model.ChannelContext) int {
	score := 50
	if channel == nil {
		return score
	}

	switch v := s.(type) {
	case *model.YouTubeNativePremium:
		if p := v.Personalization; p != nil {
			if p.ChannelAdaptation != nil {
				score += 20
			}
			if p.TrendIntegration != nil {
				score += 10
			}
		}
	case *model.TraditionalPremium:
		if cp := v.ChannelPersonalization; cp != nil {
			if len(cp.BasedOnTopVideos) > 0 {
				score += 15
			}
			if len(cp.SuccessPatterns) > 0 {
				score += 15
			}
		}
	}

	return clampScore(score)
}
