package model

// ChannelContext describes the creator's channel. Every field is optional
// and a nil *ChannelContext means no channel data is available.
type ChannelContext struct {
	Niche                 string     `json:"niche,omitempty"`
	AverageEngagementRate *float64   `json:"average_engagement_rate,omitempty"`
	TopPerformingVideos   []TopVideo `json:"top_performing_videos,omitempty"`
	SuccessPatterns       []string   `json:"success_patterns,omitempty"`
	AudienceStyle         string     `json:"audience_style,omitempty"`
}

// TopVideo is one of the channel's best-performing uploads.
type TopVideo struct {
	Title      string  `json:"title"`
	Views      int64   `json:"views"`
	Engagement float64 `json:"engagement"`
}

// ConfidenceLevel is a coarse rating of how much context fed a prediction.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ScriptAnalysis is the result of analyzing one script revision.
type ScriptAnalysis struct {
	HookStrength          int                   `json:"hook_strength"`
	NarrativeScore        int                   `json:"narrative_score"`
	AlgorithmScore        int                   `json:"algorithm_score"`
	PersonalizedScore     int                   `json:"personalized_score"`
	OverallQualityScore   int                   `json:"overall_quality_score"`
	RetentionPrediction   int                   `json:"retention_prediction"`
	EngagementPrediction  EngagementPrediction  `json:"engagement_prediction"`
	ViralElements         []ViralElement        `json:"viral_elements"`
	PerformancePrediction PerformancePrediction `json:"performance_prediction"`
	ConfidenceLevel       ConfidenceLevel       `json:"confidence_level"`
}

// EngagementPrediction holds expected interaction rates, in percent.
type EngagementPrediction struct {
	ExpectedLikeRate    float64 `json:"expected_like_rate"`
	ExpectedCommentRate float64 `json:"expected_comment_rate"`
	ExpectedShareRate   float64 `json:"expected_share_rate"`
	Multiplier          float64 `json:"multiplier"`
}

// ViralElement is a thematic virality marker found in a script.
type ViralElement struct {
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// PerformancePrediction projects headline video metrics.
type PerformancePrediction struct {
	CTR                  float64 `json:"ctr"`
	EstimatedViews       int64   `json:"estimated_views"`
	SubscriberConversion float64 `json:"subscriber_conversion"`
	ViralProbability     int     `json:"viral_probability"`
}
