package model

import (
	"encoding/json"
	"time"
)

// ScriptRecord is the persisted row for a script and its analysis.
type ScriptRecord struct {
	ID                         string               `json:"id"`
	UserID                     string               `json:"user_id"`
	IdeaID                     string               `json:"idea_id"`
	ScriptType                 string               `json:"script_type"`
	FrameworkType              FrameworkType        `json:"framework_type"`
	Content                    json.RawMessage      `json:"content"`
	HookStrength               int                  `json:"hook_strength"`
	NarrativeFlowScore         int                  `json:"narrative_flow_score"`
	AlgorithmOptimizationScore int                  `json:"algorithm_optimization_score"`
	RetentionScore             int                  `json:"retention_score"`
	PredictedRetention         int                  `json:"predicted_retention"`
	PredictedEngagement        float64              `json:"predicted_engagement"`
	PredictedCTR               float64              `json:"predicted_ctr"`
	ConfidenceLevel            ConfidenceLevel      `json:"confidence_level"`
	EngagementPrediction       EngagementPrediction `json:"engagement_prediction"`
	ViralFactors               []ViralFactor        `json:"viral_factors"`
	OptimizationData           OptimizationSummary  `json:"optimization_data"`
	PersonalizationData        json.RawMessage      `json:"personalization_data"`
	GenerationCost             float64              `json:"generation_cost"`
	WasUsed                    bool                 `json:"was_used"`
	CreatedAt                  time.Time            `json:"created_at"`
}

// ViralFactor is a viral element numbered in detection order, starting at 1.
type ViralFactor struct {
	ID     int    `json:"id"`
	Factor string `json:"factor"`
	Weight int    `json:"weight"`
}

// OptimizationSummary is the optimization_data column.
type OptimizationSummary struct {
	RetentionCurvePrediction string                `json:"retention_curve_prediction"`
	EngagementHotspots       []string              `json:"engagement_hotspots"`
	AlgorithmFactors         []string              `json:"algorithm_factors"`
	ViralProbabilityScore    int                   `json:"viral_probability_score"`
	PerformancePrediction    PerformancePrediction `json:"performance_prediction"`
}
