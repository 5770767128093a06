// Package report aggregates stored script analyses into per-user reports.
package report

import (
	"math"

	"github.com/sells-group/script-analytics/internal/model"
)

// FrameworkMetrics are the average predictions for one framework.
type FrameworkMetrics struct {
	Count               int     `json:"count"`
	AverageHookStrength int     `json:"average_hook_strength"`
	AverageRetention    int     `json:"average_retention"`
	AverageEngagement   float64 `json:"average_engagement"`
	AverageQualityScore int     `json:"average_quality_score"`
}

// Improvement is the relative change, in percent, of youtube_native over
// traditional. A metric with a zero traditional baseline reports 0.
type Improvement struct {
	HookStrength float64 `json:"hook_strength"`
	Retention    float64 `json:"retention"`
	Engagement   float64 `json:"engagement"`
	QualityScore float64 `json:"quality_score"`
}

// Comparison contrasts youtube_native scripts with traditional ones.
type Comparison struct {
	YouTubeNative FrameworkMetrics `json:"youtube_native"`
	Traditional   FrameworkMetrics `json:"traditional"`
	Improvement   Improvement      `json:"improvement"`
}

// Compare averages records per framework and computes the improvement of
// youtube_native over traditional.
func Compare(records []model.ScriptRecord) Comparison {
	var native, traditional []model.ScriptRecord
	for _, r := range records {
		switch r.FrameworkType {
		case model.FrameworkYouTubeNative:
			native = append(native, r)
		case model.FrameworkTraditional:
			traditional = append(traditional, r)
		}
	}

	n := averages(native)
	t := averages(traditional)
	return Comparison{
		YouTubeNative: n,
		Traditional:   t,
		Improvement: Improvement{
			HookStrength: relative(float64(n.AverageHookStrength), float64(t.AverageHookStrength)),
			Retention:    relative(float64(n.AverageRetention), float64(t.AverageRetention)),
			Engagement:   relative(n.AverageEngagement, t.AverageEngagement),
			QualityScore: relative(float64(n.AverageQualityScore), float64(t.AverageQualityScore)),
		},
	}
}

func averages(records []model.ScriptRecord) FrameworkMetrics {
	m := FrameworkMetrics{Count: len(records)}
	if len(records) == 0 {
		return m
	}

	var hook, retention, quality int
	var engagement float64
	for _, r := range records {
		hook += r.HookStrength
		retention += r.PredictedRetention
		quality += r.RetentionScore
		engagement += r.PredictedEngagement
	}
	count := float64(len(records))
	m.AverageHookStrength = int(math.Round(float64(hook) / count))
	m.AverageRetention = int(math.Round(float64(retention) / count))
	m.AverageQualityScore = int(math.Round(float64(quality) / count))
	m.AverageEngagement = round2(engagement / count)
	return m
}

func relative(value, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return round2((value - baseline) / baseline * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
