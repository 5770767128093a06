// Package service ties the analyzer to persistence and reporting.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/script-analytics/internal/analyzer"
	"github.com/sells-group/script-analytics/internal/cost"
	"github.com/sells-group/script-analytics/internal/model"
	"github.com/sells-group/script-analytics/internal/report"
	"github.com/sells-group/script-analytics/internal/store"
)

var (
	// ErrMissingUser is returned when a user-scoped operation has no user id.
	ErrMissingUser = eris.New("service: user id is required")
	// ErrDuplicateScript is returned when the user already saved a script of
	// the same type and framework for the idea.
	ErrDuplicateScript = eris.New("service: script already exists for idea")
	// ErrNoStore is returned by persistence operations on a Service built
	// without a store.
	ErrNoStore = eris.New("service: no store configured")
)

// SaveRequest is a script to analyze and persist.
type SaveRequest struct {
	UserID  string
	IdeaID  string
	Script  model.Script
	Channel *model.ChannelContext
}

// SaveResult is the persisted record and the analysis it was built from.
type SaveResult struct {
	ID       string                `json:"id"`
	Record   *model.ScriptRecord   `json:"-"`
	Analysis *model.ScriptAnalysis `json:"analysis"`
}

// Service runs analyses and manages stored scripts.
type Service struct {
	store    store.Store
	analyzer *analyzer.Analyzer
	rates    cost.Rates
	nowFn    func() time.Time
}

// New creates a Service. st may be nil when only Analyze is used.
func New(st store.Store, a *analyzer.Analyzer, rates cost.Rates) *Service {
	return &Service{
		store:    st,
		analyzer: a,
		rates:    rates,
		nowFn:    time.Now,
	}
}

// Analyze scores a script without persisting it.
func (s *Service) Analyze(ctx context.Context, script model.Script, channel *model.ChannelContext) (*model.ScriptAnalysis, error) {
	return s.analyzer.Analyze(ctx, script, channel)
}

// AnalyzeAndSave analyzes the script and stores it with its analysis.
// Scripts tied to an idea are unique per user, idea, script type and
// framework.
func (s *Service) AnalyzeAndSave(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, ErrMissingUser
	}

	a, err := s.analyzer.Analyze(ctx, req.Script, req.Channel)
	if err != nil {
		return nil, err
	}
	rec, err := analyzer.BuildRecord(req.Script, a, s.rates)
	if err != nil {
		return nil, err
	}
	rec.UserID = req.UserID
	rec.IdeaID = strings.TrimSpace(req.IdeaID)

	if rec.IdeaID != "" {
		existing, err := s.store.ListScripts(ctx, store.ScriptFilter{
			UserID:        rec.UserID,
			IdeaID:        rec.IdeaID,
			ScriptType:    rec.ScriptType,
			FrameworkType: rec.FrameworkType,
			Limit:         1,
		})
		if err != nil {
			return nil, eris.Wrap(err, "service: check duplicate")
		}
		if len(existing) > 0 {
			return nil, eris.Wrapf(ErrDuplicateScript, "service: existing script %s", existing[0].ID)
		}
	}

	if err := s.store.SaveScript(ctx, rec); err != nil {
		// Lost a race with a concurrent save of the same script.
		if eris.Is(err, store.ErrDuplicate) {
			return nil, eris.Wrap(ErrDuplicateScript, "service: save script")
		}
		return nil, eris.Wrap(err, "service: save script")
	}

	zap.L().Info("script saved",
		zap.String("id", rec.ID),
		zap.String("user_id", rec.UserID),
		zap.String("idea_id", rec.IdeaID),
		zap.String("script_type", rec.ScriptType),
		zap.String("framework_type", string(rec.FrameworkType)),
		zap.Int("quality_score", rec.RetentionScore),
	)

	return &SaveResult{ID: rec.ID, Record: rec, Analysis: a}, nil
}

// Get returns a stored script by id when userID owns it.
func (s *Service) Get(ctx context.Context, userID, id string) (*model.ScriptRecord, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.store.GetScript(ctx, userID, id)
}

// MarkUsed flags a stored script as used by its owner.
func (s *Service) MarkUsed(ctx context.Context, userID, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrMissingUser
	}
	if err := s.store.MarkScriptUsed(ctx, userID, id); err != nil {
		return err
	}
	zap.L().Info("script marked used", zap.String("id", id), zap.String("user_id", userID))
	return nil
}

// Comparison reports how the user's youtube_native scripts score against
// traditional ones.
func (s *Service) Comparison(ctx context.Context, userID string) (report.Comparison, error) {
	records, err := s.userRecords(ctx, userID)
	if err != nil {
		return report.Comparison{}, err
	}
	return report.Compare(records), nil
}

// Summary reports the user's totals, top scripts and weekly trends.
func (s *Service) Summary(ctx context.Context, userID string) (report.Summary, error) {
	records, err := s.userRecords(ctx, userID)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(records, s.nowFn()), nil
}

func (s *Service) userRecords(ctx context.Context, userID string) ([]model.ScriptRecord, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	records, err := s.store.ListScripts(ctx, store.ScriptFilter{UserID: userID})
	if err != nil {
		return nil, eris.Wrap(err, "service: list scripts")
	}
	return records, nil
}
