package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/sells-group/script-analytics/internal/model"
)

const (
	// TrendWindow is how far back weekly trends look.
	TrendWindow = 30 * 24 * time.Hour
	// TopPerformingLimit caps Summary.TopPerforming.
	TopPerformingLimit = 5
)

// TopScript is a stored script ranked by its overall quality score.
type TopScript struct {
	ID                 string              `json:"id"`
	IdeaID             string              `json:"idea_id,omitempty"`
	ScriptType         string              `json:"script_type"`
	FrameworkType      model.FrameworkType `json:"framework_type"`
	QualityScore       int                 `json:"quality_score"`
	PredictedRetention int                 `json:"predicted_retention"`
	CreatedAt          time.Time           `json:"created_at"`
}

// Trend aggregates the scripts created in one week. Week is the
// YYYY-MM-DD of the Sunday that starts it, in UTC.
type Trend struct {
	Week            string  `json:"week"`
	AvgRetention    float64 `json:"avg_retention"`
	AvgHookStrength float64 `json:"avg_hook_strength"`
	ScriptCount     int     `json:"script_count"`
}

// Summary is a user's script performance overview.
type Summary struct {
	TotalScripts    int         `json:"total_scripts"`
	AvgRetention    float64     `json:"avg_retention"`
	AvgHookStrength float64     `json:"avg_hook_strength"`
	TopPerforming   []TopScript `json:"top_performing"`
	RecentTrends    []Trend     `json:"recent_trends"`
}

// Summarize builds a Summary from all of a user's records. Trends cover
// records created within TrendWindow before now.
func Summarize(records []model.ScriptRecord, now time.Time) Summary {
	s := Summary{
		TotalScripts:  len(records),
		TopPerforming: []TopScript{},
		RecentTrends:  []Trend{},
	}
	if len(records) == 0 {
		return s
	}

	var retention, hook int
	for _, r := range records {
		retention += r.PredictedRetention
		hook += r.HookStrength
	}
	s.AvgRetention = round2(float64(retention) / float64(len(records)))
	s.AvgHookStrength = round2(float64(hook) / float64(len(records)))

	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b model.ScriptRecord) int {
		return cmp.Or(
			cmp.Compare(b.RetentionScore, a.RetentionScore),
			cmp.Compare(b.PredictedRetention, a.PredictedRetention),
			b.CreatedAt.Compare(a.CreatedAt),
		)
	})
	for _, r := range ranked[:min(TopPerformingLimit, len(ranked))] {
		s.TopPerforming = append(s.TopPerforming, TopScript{
			ID:                 r.ID,
			IdeaID:             r.IdeaID,
			ScriptType:         r.ScriptType,
			FrameworkType:      r.FrameworkType,
			QualityScore:       r.RetentionScore,
			PredictedRetention: r.PredictedRetention,
			CreatedAt:          r.CreatedAt,
		})
	}

	s.RecentTrends = WeeklyTrends(records, now.Add(-TrendWindow))
	return s
}

// WeeklyTrends groups records created at or after since by week, oldest
// week first.
func WeeklyTrends(records []model.ScriptRecord, since time.Time) []Trend {
	type bucket struct {
		retention, hook, count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		if r.CreatedAt.Before(since) {
			continue
		}
		key := WeekStart(r.CreatedAt).Format(time.DateOnly)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.retention += r.PredictedRetention
		b.hook += r.HookStrength
		b.count++
	}

	trends := make([]Trend, 0, len(buckets))
	for week, b := range buckets {
		trends = append(trends, Trend{
			Week:            week,
			AvgRetention:    round2(float64(b.retention) / float64(b.count)),
			AvgHookStrength: round2(float64(b.hook) / float64(b.count)),
			ScriptCount:     b.count,
		})
	}
	slices.SortFunc(trends, func(a, b Trend) int { return cmp.Compare(a.Week, b.Week) })
	return trends
}

// WeekStart returns midnight UTC of the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
