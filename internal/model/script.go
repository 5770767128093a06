package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidScript is returned when a script document cannot be decoded
// into one of the known variants.
var ErrInvalidScript = eris.New("model: invalid script document")

// FrameworkType is the authoring pattern a script follows.
type FrameworkType string

const (
	FrameworkYouTubeNative FrameworkType = "youtube_native"
	FrameworkTraditional   FrameworkType = "traditional"
)

// Variant discriminates the four script document shapes.
type Variant string

const (
	VariantYouTubeNativeBasic   Variant = "youtube_native_basic"
	VariantYouTubeNativePremium Variant = "youtube_native_premium"
	VariantTraditionalBasic     Variant = "traditional_basic"
	VariantTraditionalPremium   Variant = "traditional_premium"
)

// Variants lists every known variant.
var Variants = []Variant{
	VariantYouTubeNativeBasic,
	VariantYouTubeNativePremium,
	VariantTraditionalBasic,
	VariantTraditionalPremium,
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	switch v {
	case VariantYouTubeNativeBasic, VariantYouTubeNativePremium,
		VariantTraditionalBasic, VariantTraditionalPremium:
		return true
	}
	return false
}

// Framework returns the framework implied by the variant prefix.
func (v Variant) Framework() FrameworkType {
	if strings.HasPrefix(string(v), string(FrameworkYouTubeNative)) {
		return FrameworkYouTubeNative
	}
	return FrameworkTraditional
}

// IsPremium reports whether v is a premium variant.
func (v Variant) IsPremium() bool {
	return v == VariantYouTubeNativePremium || v == VariantTraditionalPremium
}

// ScriptType returns "premium" or "basic".
func (v Variant) ScriptType() string {
	if v.IsPremium() {
		return "premium"
	}
	return "basic"
}

// Script is a generated video-script document. It is implemented by
// exactly four types: *YouTubeNativeBasic, *YouTubeNativePremium,
// *TraditionalBasic and *TraditionalPremium.
type Script interface {
	Variant() Variant
	Document() json.RawMessage
	isScript()
}

// Header holds document metadata shared by every variant.
type Header struct {
	Type          Variant       `json:"type"`
	FrameworkType FrameworkType `json:"framework_type"`
	GeneratedAt   string        `json:"generatedAt,omitempty"`
	PromptVersion string        `json:"promptVersion,omitempty"`

	raw json.RawMessage
}

// Document returns the generator document the script was parsed from,
// or nil for scripts built in code.
func (h Header) Document() json.RawMessage { return h.raw }

func (h Header) stamped(v Variant) Header {
	h.Type = v
	h.FrameworkType = v.Framework()
	return h
}

// --- YouTube-native basic ---

// YouTubeNativeBasic is the three-part retention-first script.
type YouTubeNativeBasic struct {
	Header
	Hook                  NativeHook             `json:"hook"`
	NarrativeFlow         *NarrativeFlow         `json:"narrative_flow,omitempty"`
	CTAStrategy           *CTAStrategy           `json:"cta_strategy,omitempty"`
	RetentionOptimization *RetentionOptimization `json:"retention_optimization,omitempty"`
}

// NativeHook is the opening line of a youtube_native basic script.
type NativeHook struct {
	Primary            string `json:"primary"`
	Type               string `json:"type,omitempty"`
	EstimatedRetention string `json:"estimated_retention,omitempty"`
	PsychologyUsed     string `json:"psychology_used,omitempty"`
}

// UnmarshalJSON accepts either a hook record or a bare hook line.
func (h *NativeHook) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*h = NativeHook{Primary: line}
		return nil
	}
	type plain NativeHook
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*h = NativeHook(p)
	return nil
}

// NarrativeFlow splits a basic script into identification, solution and
// implementation segments.
type NarrativeFlow struct {
	Identification *FlowSegment `json:"identification,omitempty"`
	Solution       *FlowSegment `json:"solution,omitempty"`
	Implementation *FlowSegment `json:"implementation,omitempty"`
}

// FlowSegment is one part of a NarrativeFlow.
type FlowSegment struct {
	Content               string   `json:"content,omitempty"`
	Timing                string   `json:"timing,omitempty"`
	EngagementElements    []string `json:"engagement_elements,omitempty"`
	PsychologicalTriggers []string `json:"psychological_triggers,omitempty"`
	ValueDelivery         []string `json:"value_delivery,omitempty"`
	NextSteps             []string `json:"next_steps,omitempty"`
}

// CTAStrategy is the simple call-to-action plan of a basic script.
type CTAStrategy struct {
	Primary  string `json:"primary,omitempty"`
	Approach string `json:"approach,omitempty"`
	Timing   string `json:"timing,omitempty"`
}

// RetentionOptimization lists timestamps of retention techniques.
type RetentionOptimization struct {
	PatternInterrupts []string `json:"pattern_interrupts,omitempty"`
	ValuePayoffs      []string `json:"value_payoffs,omitempty"`
	OpenLoops         []string `json:"open_loops,omitempty"`
}

func (*YouTubeNativeBasic) isScript() {}

// Variant implements Script.
func (*YouTubeNativeBasic) Variant() Variant { return VariantYouTubeNativeBasic }

// MarshalJSON writes the document with its discriminator.
func (s YouTubeNativeBasic) MarshalJSON() ([]byte, error) {
	type alias YouTubeNativeBasic
	a := alias(s)
	a.Header = s.Header.stamped(VariantYouTubeNativeBasic)
	return json.Marshal(a)
}

// --- YouTube-native premium ---

// YouTubeNativePremium is the three-act script with conversion,
// optimization and personalization plans.
type YouTubeNativePremium struct {
	Header
	HookSystem             HookSystem              `json:"hook_system"`
	NarrativeStructure     *NarrativeStructure     `json:"narrative_structure,omitempty"`
	ConversionStrategy     *ConversionStrategy     `json:"conversion_strategy,omitempty"`
	OptimizationData       *OptimizationData       `json:"optimization_data,omitempty"`
	Personalization        *Personalization        `json:"personalization,omitempty"`
	PerformancePrediction  json.RawMessage         `json:"performance_prediction,omitempty"`
	PostProductionGuidance *PostProductionGuidance `json:"post_production_guidance,omitempty"`
}

// HookSystem is a primary hook plus tested alternatives.
type HookSystem struct {
	Primary             string   `json:"primary"`
	Alternatives        []string `json:"alternatives,omitempty"`
	PsychologyType      string   `json:"psychology_type,omitempty"`
	RetentionPrediction string   `json:"retention_prediction,omitempty"`
	NicheOptimization   string   `json:"niche_optimization,omitempty"`
}

// NarrativeStructure is the three-act body of a premium script.
type NarrativeStructure struct {
	Act1Identification *Act `json:"act1_identification,omitempty"`
	Act2SolutionReveal *Act `json:"act2_solution_reveal,omitempty"`
	Act3Implementation *Act `json:"act3_implementation,omitempty"`
}

// Act is one act of a NarrativeStructure.
type Act struct {
	Content               string               `json:"content,omitempty"`
	Timing                string               `json:"timing,omitempty"`
	PsychologicalTriggers []string             `json:"psychological_triggers,omitempty"`
	EngagementMechanics   []string             `json:"engagement_mechanics,omitempty"`
	VisualSuggestions     []string             `json:"visual_suggestions,omitempty"`
	ValueDelivery         *ValueDelivery       `json:"value_delivery,omitempty"`
	ImplementationGuide   *ImplementationGuide `json:"implementation_guide,omitempty"`
}

// ValueDelivery describes how act 2 delivers the promised value.
type ValueDelivery struct {
	FrameworkIntroduction  string `json:"framework_introduction,omitempty"`
	StepByStepBreakdown    string `json:"step_by_step_breakdown,omitempty"`
	RealExamples           string `json:"real_examples,omitempty"`
	SocialProofIntegration string `json:"social_proof_integration,omitempty"`
}

// ImplementationGuide describes how act 3 turns value into action.
type ImplementationGuide struct {
	ImmediateAction   string `json:"immediate_action,omitempty"`
	ToolsAndResources string `json:"tools_and_resources,omitempty"`
	SuccessMetrics    string `json:"success_metrics,omitempty"`
	CommonPitfalls    string `json:"common_pitfalls,omitempty"`
}

// ConversionStrategy is the premium call-to-action plan.
type ConversionStrategy struct {
	SoftCTAs           []string `json:"soft_ctas,omitempty"`
	ValueRatio         string   `json:"value_ratio,omitempty"`
	NaturalIntegration string   `json:"natural_integration,omitempty"`
	CommunityBuilding  string   `json:"community_building,omitempty"`
}

// OptimizationData is the premium algorithm-optimization plan.
type OptimizationData struct {
	RetentionCurvePrediction string   `json:"retention_curve_prediction,omitempty"`
	EngagementHotspots       []string `json:"engagement_hotspots,omitempty"`
	AlgorithmFactors         []string `json:"algorithm_factors,omitempty"`
	ViralProbabilityScore    float64  `json:"viral_probability_score,omitempty"`
}

// Personalization describes channel adaptation and trend integration.
type Personalization struct {
	ChannelAdaptation *ChannelAdaptation `json:"channel_adaptation,omitempty"`
	TrendIntegration  *TrendIntegration  `json:"trend_integration,omitempty"`
}

// ChannelAdaptation tailors the script to a channel's audience.
type ChannelAdaptation struct {
	AudienceInsights string `json:"audience_insights,omitempty"`
	ContentStyle     string `json:"content_style,omitempty"`
	BrandVoice       string `json:"brand_voice,omitempty"`
	NichePatterns    string `json:"niche_patterns,omitempty"`
}

// TrendIntegration ties the script to current trends.
type TrendIntegration struct {
	CurrentTrends   string `json:"current_trends,omitempty"`
	SeasonalFactors string `json:"seasonal_factors,omitempty"`
	PlatformUpdates string `json:"platform_updates,omitempty"`
}

// PostProductionGuidance carries editing and packaging notes.
type PostProductionGuidance struct {
	EditingSuggestions    []string `json:"editing_suggestions,omitempty"`
	ThumbnailOptimization string   `json:"thumbnail_optimization,omitempty"`
	TitleVariations       string   `json:"title_variations,omitempty"`
	DescriptionTemplate   string   `json:"description_template,omitempty"`
}

func (*YouTubeNativePremium) isScript() {}

// Variant implements Script.
func (*YouTubeNativePremium) Variant() Variant { return VariantYouTubeNativePremium }

// MarshalJSON writes the document with its discriminator.
func (s YouTubeNativePremium) MarshalJSON() ([]byte, error) {
	type alias YouTubeNativePremium
	a := alias(s)
	a.Header = s.Header.stamped(VariantYouTubeNativePremium)
	return json.Marshal(a)
}

// --- Traditional basic ---

// TraditionalBasic is the legacy linear script.
type TraditionalBasic struct {
	Header
	Hook              TextHook `json:"hook"`
	MainPoints        []string `json:"mainPoints,omitempty"`
	CTA               string   `json:"cta,omitempty"`
	EstimatedDuration string   `json:"estimatedDuration,omitempty"`
}

func (*TraditionalBasic) isScript() {}

// Variant implements Script.
func (*TraditionalBasic) Variant() Variant { return VariantTraditionalBasic }

// TextHook is the opening line of a traditional script. Generators
// occasionally emit it as a {"primary": ...} record.
type TextHook string

// UnmarshalJSON accepts either a bare hook line or a hook record.
func (h *TextHook) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*h = TextHook(line)
		return nil
	}
	var rec struct {
		Primary string `json:"primary"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*h = TextHook(rec.Primary)
	return nil
}

// MarshalJSON writes the document with its discriminator.
func (s TraditionalBasic) MarshalJSON() ([]byte, error) {
	type alias TraditionalBasic
	a := alias(s)
	a.Header = s.Header.stamped(VariantTraditionalBasic)
	return json.Marshal(a)
}

// --- Traditional premium ---

// TraditionalPremium is the legacy sectioned script.
type TraditionalPremium struct {
	Header
	Hook                   TextHook                `json:"hook"`
	AlternativeHooks       []string                `json:"alternativeHooks,omitempty"`
	Introduction           string                  `json:"introduction,omitempty"`
	MainContent            *MainContent            `json:"mainContent,omitempty"`
	Transitions            []string                `json:"transitions,omitempty"`
	Conclusion             string                  `json:"conclusion,omitempty"`
	CTA                    string                  `json:"cta,omitempty"`
	SEOTags                []string                `json:"seoTags,omitempty"`
	ThumbnailSuggestions   []string                `json:"thumbnailSuggestions,omitempty"`
	EstimatedDuration      string                  `json:"estimatedDuration,omitempty"`
	TargetAudience         string                  `json:"targetAudience,omitempty"`
	EngagementTips         []string                `json:"engagementTips,omitempty"`
	PostingRecommendations json.RawMessage         `json:"postingRecommendations,omitempty"`
	PerformancePrediction  json.RawMessage         `json:"performancePrediction,omitempty"`
	ChannelPersonalization *ChannelPersonalization `json:"channelPersonalization,omitempty"`
}

// MainContent is the sectioned body of a traditional premium script.
type MainContent struct {
	Sections []Section `json:"sections"`
}

// HasSections reports whether a sections array is present, even an empty one.
func (m *MainContent) HasSections() bool {
	return m != nil && m.Sections != nil
}

// Section is one titled part of MainContent.
type Section struct {
	Title              string   `json:"title,omitempty"`
	Content            string   `json:"content,omitempty"`
	Timing             string   `json:"timing,omitempty"`
	VisualSuggestions  []string `json:"visualSuggestions,omitempty"`
	EngagementTriggers []string `json:"engagementTriggers,omitempty"`
}

// ChannelPersonalization is the legacy personalization block.
type ChannelPersonalization struct {
	BasedOnTopVideos []string `json:"basedOnTopVideos,omitempty"`
	AudienceInsights string   `json:"audienceInsights,omitempty"`
	SuccessPatterns  []string `json:"successPatterns,omitempty"`
}

func (*TraditionalPremium) isScript() {}

// Variant implements Script.
func (*TraditionalPremium) Variant() Variant { return VariantTraditionalPremium }

// MarshalJSON writes the document with its discriminator.
func (s TraditionalPremium) MarshalJSON() ([]byte, error) {
	type alias TraditionalPremium
	a := alias(s)
	a.Header = s.Header.stamped(VariantTraditionalPremium)
	return json.Marshal(a)
}

// --- Decoding ---

// ParseScript decodes a generator document into its concrete variant.
func ParseScript(data []byte) (Script, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, eris.Wrap(ErrInvalidScript, "empty document")
	}

	var head Header
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return nil, eris.Wrapf(ErrInvalidScript, "decode header: %v", err)
	}
	if !head.Type.Valid() {
		return nil, eris.Wrapf(ErrInvalidScript, "unknown type %q", head.Type)
	}
	if head.FrameworkType != "" && head.FrameworkType != head.Type.Framework() {
		return nil, eris.Wrapf(ErrInvalidScript, "framework_type %q conflicts with type %q",
			head.FrameworkType, head.Type)
	}

	var (
		s Script
		h *Header
	)
	switch head.Type {
	case VariantYouTubeNativeBasic:
		v := &YouTubeNativeBasic{}
		s, h = v, &v.Header
	case VariantYouTubeNativePremium:
		v := &YouTubeNativePremium{}
		s, h = v, &v.Header
	case VariantTraditionalBasic:
		v := &TraditionalBasic{}
		s, h = v, &v.Header
	case VariantTraditionalPremium:
		v := &TraditionalPremium{}
		s, h = v, &v.Header
	}
	if err := json.Unmarshal(trimmed, s); err != nil {
		return nil, eris.Wrapf(ErrInvalidScript, "decode %s: %v", head.Type, err)
	}
	h.raw = append(json.RawMessage(nil), trimmed...)
	return s, nil
}
