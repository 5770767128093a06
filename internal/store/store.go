// Package store persists scripts together with their analysis.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/script-analytics/internal/model"
)

var (
	// ErrNotFound is returned when no script matches the requested id.
	ErrNotFound = eris.New("store: script not found")
	// ErrDuplicate is returned when a script already exists for the same
	// user, idea, script type and framework.
	ErrDuplicate = eris.New("store: duplicate script")
)

// ScriptFilter narrows ListScripts. Zero fields match everything; a
// non-positive Limit returns every match.
type ScriptFilter struct {
	UserID        string              `json:"user_id,omitempty"`
	IdeaID        string              `json:"idea_id,omitempty"`
	ScriptType    string              `json:"script_type,omitempty"`
	FrameworkType model.FrameworkType `json:"framework_type,omitempty"`
	Since         time.Time           `json:"since,omitempty"`
	Limit         int                 `json:"limit,omitempty"`
	Offset        int                 `json:"offset,omitempty"`
}

// Store defines the persistence interface for analyzed scripts.
type Store interface {
	// SaveScript inserts rec, assigning ID and CreatedAt when unset.
	SaveScript(ctx context.Context, rec *model.ScriptRecord) error
	// GetScript returns the script only when userID owns it.
	GetScript(ctx context.Context, userID, id string) (*model.ScriptRecord, error)
	// ListScripts returns matches newest first.
	ListScripts(ctx context.Context, filter ScriptFilter) ([]model.ScriptRecord, error)
	// MarkScriptUsed flags the script only when userID owns it.
	MarkScriptUsed(ctx context.Context, userID, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

const scriptColumns = `id, user_id, idea_id, script_type, framework_type, content,
	hook_strength, narrative_flow_score, algorithm_optimization_score, retention_score,
	predicted_retention, predicted_engagement, predicted_ctr, confidence_level,
	engagement_prediction, viral_factors, optimization_data, personalization_data,
	generation_cost, was_used, created_at`

// encodedRecord holds the JSON columns of a record ready for insertion.
type encodedRecord struct {
	content         []byte
	engagement      []byte
	viralFactors    []byte
	optimization    []byte
	personalization []byte
}

// prepareRecord fills in ID and CreatedAt and encodes the JSON columns.
func prepareRecord(rec *model.ScriptRecord) (*encodedRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	enc := &encodedRecord{
		content:         orEmptyObject(rec.Content),
		personalization: orEmptyObject(rec.PersonalizationData),
	}
	var err error
	if enc.engagement, err = json.Marshal(rec.EngagementPrediction); err != nil {
		return nil, eris.Wrap(err, "store: marshal engagement prediction")
	}
	factors := rec.ViralFactors
	if factors == nil {
		factors = []model.ViralFactor{}
	}
	if enc.viralFactors, err = json.Marshal(factors); err != nil {
		return nil, eris.Wrap(err, "store: marshal viral factors")
	}
	if enc.optimization, err = json.Marshal(rec.OptimizationData); err != nil {
		return nil, eris.Wrap(err, "store: marshal optimization data")
	}
	return enc, nil
}

// decodeJSONColumns fills the structured JSON fields of rec.
func decodeJSONColumns(rec *model.ScriptRecord, engagement, viralFactors, optimization []byte) error {
	if err := json.Unmarshal(engagement, &rec.EngagementPrediction); err != nil {
		return eris.Wrap(err, "store: unmarshal engagement prediction")
	}
	if err := json.Unmarshal(viralFactors, &rec.ViralFactors); err != nil {
		return eris.Wrap(err, "store: unmarshal viral factors")
	}
	if err := json.Unmarshal(optimization, &rec.OptimizationData); err != nil {
		return eris.Wrap(err, "store: unmarshal optimization data")
	}
	return nil
}

func orEmptyObject(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte(`{}`)
	}
	return raw
}

// listQuery builds the ListScripts statement. placeholder renders the
// n-th (1-based) bind parameter for the target driver.
func listQuery(filter ScriptFilter, placeholder func(n int) string) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, placeholder(len(args))))
	}

	if filter.UserID != "" {
		add("user_id = %s", filter.UserID)
	}
	if filter.IdeaID != "" {
		add("idea_id = %s", filter.IdeaID)
	}
	if filter.ScriptType != "" {
		add("script_type = %s", filter.ScriptType)
	}
	if filter.FrameworkType != "" {
		add("framework_type = %s", string(filter.FrameworkType))
	}
	if !filter.Since.IsZero() {
		add("created_at >= %s", filter.Since.UTC())
	}

	query := `SELECT ` + scriptColumns + ` FROM scripts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT ` + placeholder(len(args))
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			query += ` OFFSET ` + placeholder(len(args))
		}
	}
	return query, args
}
