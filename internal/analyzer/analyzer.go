// Package analyzer scores generated video scripts and predicts their
// retention, engagement and reach.
package analyzer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/script-analytics/internal/model"
)

// ErrInvalidInput is returned when Analyze receives no script.
var ErrInvalidInput = eris.New("analyzer: invalid input")

// Stage is a step of a single analysis run.
type Stage string

const (
	StageReceived    Stage = "received"
	StageSubScoring  Stage = "sub_scoring"
	StagePredicting  Stage = "predicting"
	StageAggregating Stage = "aggregating"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Options configures an Analyzer.
type Options struct {
	// DefaultNiche is used when the channel context names no niche.
	DefaultNiche string
	// DefaultEngagementRate is the like-rate baseline without channel data.
	DefaultEngagementRate float64
	// NicheBonusCap caps the hook niche bonus; 0 means uncapped.
	NicheBonusCap int
	// OnStage, if set, is called on every stage transition.
	OnStage func(Stage)
}

// Analyzer runs the scoring pipeline. It holds only configuration and is
// safe for concurrent use.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer. A non-positive DefaultEngagementRate falls back
// to DefaultEngagementRate.
func New(opts Options) *Analyzer {
	if opts.DefaultEngagementRate <= 0 {
		opts.DefaultEngagementRate = DefaultEngagementRate
	}
	if opts.NicheBonusCap < 0 {
		opts.NicheBonusCap = 0
	}
	return &Analyzer{opts: opts}
}

// Analyze scores the script against the optional channel context. The
// result depends only on its inputs.
func (a *Analyzer) Analyze(ctx context.Context, s model.Script, channel *model.ChannelContext) (*model.ScriptAnalysis, error) {
	a.enter(StageReceived)
	if err := ctx.Err(); err != nil {
		a.enter(StageFailed)
		return nil, eris.Wrap(err, "analyzer: analyze")
	}
	if isNilScript(s) {
		a.enter(StageFailed)
		return nil, eris.Wrap(ErrInvalidInput, "analyzer: script is required")
	}

	a.enter(StageSubScoring)
	var (
		hookText   = HookText(s)
		hook       int
		narrative  int
		algorithm  int
		personal   int
		viral      []model.ViralElement
		engagement model.EngagementPrediction
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		hook = HookStrength(hookText, a.niche(channel), a.opts.NicheBonusCap)
		return nil
	})
	g.Go(func() error {
		viral = ViralElements(s)
		return nil
	})
	g.Go(func() error {
		narrative = NarrativeScore(s)
		return nil
	})
	g.Go(func() error {
		algorithm = AlgorithmScore(s)
		return nil
	})
	g.Go(func() error {
		personal = PersonalizationScore(s, channel)
		return nil
	})
	g.Go(func() error {
		engagement = PredictEngagement(s, channel, a.opts.DefaultEngagementRate)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.enter(StageFailed)
		return nil, eris.Wrap(err, "analyzer: sub-scoring")
	}

	a.enter(StagePredicting)
	scores := Scores{Hook: hook, Narrative: narrative, Algorithm: algorithm, Personalization: personal}
	hookProxy := 50
	if hookText != "" {
		hookProxy = hook
	}
	retention := PredictRetention(hookProxy, StructurePresence(s), EngagementPresence(s))
	performance := PredictPerformance(scores, s.Variant())

	a.enter(StageAggregating)
	result := &model.ScriptAnalysis{
		HookStrength:          hook,
		NarrativeScore:        narrative,
		AlgorithmScore:        algorithm,
		PersonalizedScore:     personal,
		OverallQualityScore:   OverallQuality(scores),
		RetentionPrediction:   retention,
		EngagementPrediction:  engagement,
		ViralElements:         viral,
		PerformancePrediction: performance,
		ConfidenceLevel:       Confidence(s, channel),
	}

	a.enter(StageDone)
	zap.L().Debug("analyzer: analysis complete",
		zap.String("variant", string(s.Variant())),
		zap.Int("overall_quality", result.OverallQualityScore),
		zap.Int("retention", result.RetentionPrediction),
		zap.String("confidence", string(result.ConfidenceLevel)),
	)
	return result, nil
}

func (a *Analyzer) niche(channel *model.ChannelContext) string {
	if channel != nil && channel.Niche != "" {
		return channel.Niche
	}
	return a.opts.DefaultNiche
}

func (a *Analyzer) enter(st Stage) {
	zap.L().Debug("analyzer: stage", zap.String("stage", string(st)))
	if a.opts.OnStage != nil {
		a.opts.OnStage(st)
	}
}
