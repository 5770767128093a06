package analyzer

import (
	"math"

	"github.com/sells-group/script-analytics/internal/model"
)

// DefaultEngagementRate is the baseline like rate, in percent, used when
// the channel context carries none.
const DefaultEngagementRate = 3.5

// PredictRetention projects average view retention, in percent, on [35,95].
func PredictRetention(hookProxy, structure, engagement int) int {
	r := 55 +
		float64(hookProxy-50)*0.40 +
		float64(structure-50)*0.35 +
		float64(engagement-50)*0.25
	return clamp(int(math.Round(r)), 35, 95)
}

// EngagementMultiplier is the product of the script's engagement signals.
func EngagementMultiplier(s model.Script) float64 {
	m := 1.0
	if isNative(s) {
		m += 0.30
	}
	if HasValueDelivery(s) {
		m += 0.20
	}
	if HasConversionStrategy(s) {
		m += 0.15
	}
	if HasPersonalization(s) {
		m += 0.10
	}
	return m
}

// PredictEngagement projects like, comment and share rates. The channel's
// average engagement rate is the baseline, falling back to defaultRate.
func PredictEngagement(s model.Script, channel *model.ChannelContext, defaultRate float64) model.EngagementPrediction {
	base := defaultRate
	if channel != nil && channel.AverageEngagementRate != nil {
		base = *channel.AverageEngagementRate
	}
	base = math.Max(0, base)

	m := EngagementMultiplier(s)
	return model.EngagementPrediction{
		ExpectedLikeRate:    round2(base * m),
		ExpectedCommentRate: round2(base * 0.25 * m),
		ExpectedShareRate:   round2(base * 0.08 * m),
		Multiplier:          round2(m),
	}
}

// Scores are the four 0-100 sub-scores.
type Scores struct {
	Hook            int
	Narrative       int
	Algorithm       int
	Personalization int
}

func (sc Scores) mean() float64 {
	return float64(sc.Hook+sc.Narrative+sc.Algorithm+sc.Personalization) / 4
}

// OverallQuality is the weighted composite of the sub-scores.
func OverallQuality(sc Scores) int {
	q := float64(sc.Hook)*0.40 +
		float64(sc.Narrative)*0.30 +
		float64(sc.Algorithm)*0.20 +
		float64(sc.Personalization)*0.10
	return clampScore(int(math.Round(q)))
}

// Confidence rates how much context fed the prediction.
func Confidence(s model.Script, channel *model.ChannelContext) model.ConfidenceLevel {
	points := 10
	if isNative(s) {
		points = 30
	}
	if s != nil && s.Variant().IsPremium() {
		points += 25
	} else {
		points += 15
	}
	if channel != nil {
		if len(channel.TopPerformingVideos) > 0 {
			points += 20
		}
		if len(channel.SuccessPatterns) > 0 {
			points += 15
		}
		if channel.AverageEngagementRate != nil {
			points += 10
		}
	}

	switch {
	case points >= 80:
		return model.ConfidenceHigh
	case points >= 50:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

const (
	baseCTR     = 4.5
	baseViews   = 10000.0
	baseSubConv = 2.0
)

// PredictPerformance projects CTR, views, subscriber conversion and viral
// probability from the sub-scores and the script variant.
func PredictPerformance(sc Scores, v model.Variant) model.PerformancePrediction {
	ctr, views, subConv := baseCTR, baseViews, baseSubConv
	if v.Framework() == model.FrameworkYouTubeNative {
		ctr += 1.5
		views *= 1.8
		subConv += 1.5
	}
	if v.IsPremium() {
		ctr += 0.8
		views *= 1.4
		subConv += 0.8
	}

	avg := sc.mean()
	m := 0.5 + (avg/100)*1.5

	return model.PerformancePrediction{
		CTR:                  round2(ctr * m),
		EstimatedViews:       int64(math.Round(views * m)),
		SubscriberConversion: round2(subConv * m),
		ViralProbability:     clamp(int(math.Round((avg-50)*0.9+25)), 0, 95),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampScore(v int) int {
	return clamp(v, 0, 100)
}
