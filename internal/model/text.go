package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// TextLeaves returns every non-empty textual leaf of the script. Declared
// fields come first in a fixed order, followed by the string leaves of any
// top-level fields the parsed document carried that no variant declares.
// Header metadata is excluded.
func TextLeaves(s Script) []string {
	var c leafCollector
	switch v := s.(type) {
	case *YouTubeNativeBasic:
		c.add(v.Hook.Primary, v.Hook.Type, v.Hook.EstimatedRetention, v.Hook.PsychologyUsed)
		if nf := v.NarrativeFlow; nf != nil {
			for _, seg := range []*FlowSegment{nf.Identification, nf.Solution, nf.Implementation} {
				if seg == nil {
					continue
				}
				c.add(seg.Content, seg.Timing)
				c.add(seg.EngagementElements...)
				c.add(seg.PsychologicalTriggers...)
				c.add(seg.ValueDelivery...)
				c.add(seg.NextSteps...)
			}
		}
		if cta := v.CTAStrategy; cta != nil {
			c.add(cta.Primary, cta.Approach, cta.Timing)
		}
		if ro := v.RetentionOptimization; ro != nil {
			c.add(ro.PatternInterrupts...)
			c.add(ro.ValuePayoffs...)
			c.add(ro.OpenLoops...)
		}
	case *YouTubeNativePremium:
		h := v.HookSystem
		c.add(h.Primary)
		c.add(h.Alternatives...)
		c.add(h.PsychologyType, h.RetentionPrediction, h.NicheOptimization)
		if ns := v.NarrativeStructure; ns != nil {
			for _, act := range []*Act{ns.Act1Identification, ns.Act2SolutionReveal, ns.Act3Implementation} {
				if act == nil {
					continue
				}
				c.add(act.Content, act.Timing)
				c.add(act.PsychologicalTriggers...)
				c.add(act.EngagementMechanics...)
				c.add(act.VisualSuggestions...)
				if vd := act.ValueDelivery; vd != nil {
					c.add(vd.FrameworkIntroduction, vd.StepByStepBreakdown, vd.RealExamples, vd.SocialProofIntegration)
				}
				if ig := act.ImplementationGuide; ig != nil {
					c.add(ig.ImmediateAction, ig.ToolsAndResources, ig.SuccessMetrics, ig.CommonPitfalls)
				}
			}
		}
		if cs := v.ConversionStrategy; cs != nil {
			c.add(cs.SoftCTAs...)
			c.add(cs.ValueRatio, cs.NaturalIntegration, cs.CommunityBuilding)
		}
		if od := v.OptimizationData; od != nil {
			c.add(od.RetentionCurvePrediction)
			c.add(od.EngagementHotspots...)
			c.add(od.AlgorithmFactors...)
		}
		if p := v.Personalization; p != nil {
			if ca := p.ChannelAdaptation; ca != nil {
				c.add(ca.AudienceInsights, ca.ContentStyle, ca.BrandVoice, ca.NichePatterns)
			}
			if ti := p.TrendIntegration; ti != nil {
				c.add(ti.CurrentTrends, ti.SeasonalFactors, ti.PlatformUpdates)
			}
		}
		c.addJSON(v.PerformancePrediction)
		if pp := v.PostProductionGuidance; pp != nil {
			c.add(pp.EditingSuggestions...)
			c.add(pp.ThumbnailOptimization, pp.TitleVariations, pp.DescriptionTemplate)
		}
	case *TraditionalBasic:
		c.add(string(v.Hook))
		c.add(v.MainPoints...)
		c.add(v.CTA, v.EstimatedDuration)
	case *TraditionalPremium:
		c.add(string(v.Hook))
		c.add(v.AlternativeHooks...)
		c.add(v.Introduction)
		if mc := v.MainContent; mc != nil {
			for _, sec := range mc.Sections {
				c.add(sec.Title, sec.Content, sec.Timing)
				c.add(sec.VisualSuggestions...)
				c.add(sec.EngagementTriggers...)
			}
		}
		c.add(v.Transitions...)
		c.add(v.Conclusion, v.CTA)
		c.add(v.SEOTags...)
		c.add(v.ThumbnailSuggestions...)
		c.add(v.EstimatedDuration, v.TargetAudience)
		c.add(v.EngagementTips...)
		c.addJSON(v.PostingRecommendations)
		c.addJSON(v.PerformancePrediction)
		if cp := v.ChannelPersonalization; cp != nil {
			c.add(cp.BasedOnTopVideos...)
			c.add(cp.AudienceInsights)
			c.add(cp.SuccessPatterns...)
		}
	}
	if s != nil {
		c.addUndeclared(s.Document(), declaredKeys[s.Variant()])
	}
	return c.leaves
}

type leafCollector struct {
	leaves []string
}

func (c *leafCollector) add(values ...string) {
	for _, v := range values {
		if v != "" {
			c.leaves = append(c.leaves, v)
		}
	}
}

// addJSON collects the string values of a free-form JSON block. Object
// keys, numbers and booleans are not text.
func (c *leafCollector) addJSON(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	_ = c.walk(json.NewDecoder(bytes.NewReader(raw)))
}

// addUndeclared collects the string leaves of top-level document fields
// outside the declared set, in document order.
func (c *leafCollector) addUndeclared(doc json.RawMessage, declared map[string]bool) {
	if len(doc) == 0 {
		return
	}
	dec := json.NewDecoder(bytes.NewReader(doc))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		key, _ := tok.(string)
		if declared[strings.ToLower(key)] {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return
			}
			continue
		}
		if err := c.walk(dec); err != nil {
			return
		}
	}
}

func (c *leafCollector) walk(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch t := tok.(type) {
	case string:
		c.add(t)
	case json.Delim:
		object := t == '{'
		for dec.More() {
			if object {
				if _, err := dec.Token(); err != nil {
					return err
				}
			}
			if err := c.walk(dec); err != nil {
				return err
			}
		}
		_, err = dec.Token()
		return err
	}
	return nil
}

// declaredKeys holds the lower-cased JSON field names of each variant,
// matching the case-insensitive key binding of encoding/json.
var declaredKeys = map[Variant]map[string]bool{
	VariantYouTubeNativeBasic:   jsonKeys(reflect.TypeOf(YouTubeNativeBasic{})),
	VariantYouTubeNativePremium: jsonKeys(reflect.TypeOf(YouTubeNativePremium{})),
	VariantTraditionalBasic:     jsonKeys(reflect.TypeOf(TraditionalBasic{})),
	VariantTraditionalPremium:   jsonKeys(reflect.TypeOf(TraditionalPremium{})),
}

func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous {
			for k := range jsonKeys(f.Type) {
				keys[k] = true
			}
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[strings.ToLower(name)] = true
	}
	return keys
}
