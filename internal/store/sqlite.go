package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/script-analytics/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scripts (
	id                           TEXT PRIMARY KEY,
	user_id                      TEXT NOT NULL,
	idea_id                      TEXT NOT NULL DEFAULT '',
	script_type                  TEXT NOT NULL,
	framework_type               TEXT NOT NULL,
	content                      TEXT NOT NULL,
	hook_strength                INTEGER NOT NULL,
	narrative_flow_score         INTEGER NOT NULL,
	algorithm_optimization_score INTEGER NOT NULL,
	retention_score              INTEGER NOT NULL,
	predicted_retention          INTEGER NOT NULL,
	predicted_engagement         REAL NOT NULL,
	predicted_ctr                REAL NOT NULL,
	confidence_level             TEXT NOT NULL,
	engagement_prediction        TEXT NOT NULL,
	viral_factors                TEXT NOT NULL,
	optimization_data            TEXT NOT NULL,
	personalization_data         TEXT NOT NULL DEFAULT '{}',
	generation_cost              REAL NOT NULL DEFAULT 0,
	was_used                     BOOLEAN NOT NULL DEFAULT 0,
	created_at                   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scripts_user_created ON scripts(user_id, created_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_scripts_idea_variant
	ON scripts(user_id, idea_id, script_type, framework_type) WHERE idea_id <> '';
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveScript(ctx context.Context, rec *model.ScriptRecord) error {
	enc, err := prepareRecord(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scripts (`+scriptColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.IdeaID, rec.ScriptType, string(rec.FrameworkType), string(enc.content),
		rec.HookStrength, rec.NarrativeFlowScore, rec.AlgorithmOptimizationScore, rec.RetentionScore,
		rec.PredictedRetention, rec.PredictedEngagement, rec.PredictedCTR, string(rec.ConfidenceLevel),
		string(enc.engagement), string(enc.viralFactors), string(enc.optimization), string(enc.personalization),
		rec.GenerationCost, rec.WasUsed, rec.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return eris.Wrapf(ErrDuplicate, "sqlite: insert script for idea %s", rec.IdeaID)
		}
		return eris.Wrap(err, "sqlite: insert script")
	}
	return nil
}

func (s *SQLiteStore) GetScript(ctx context.Context, userID, id string) (*model.ScriptRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+scriptColumns+` FROM scripts WHERE id = ? AND user_id = ?`, id, userID)
	rec, err := scanSQLiteScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get script %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get script %s", id)
	}
	return rec, nil
}

func (s *SQLiteStore) ListScripts(ctx context.Context, filter ScriptFilter) ([]model.ScriptRecord, error) {
	query, args := listQuery(filter, func(int) string { return "?" })

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scripts")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.ScriptRecord
	for rows.Next() {
		rec, err := scanSQLiteScript(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan script")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list scripts iterate")
}

func (s *SQLiteStore) MarkScriptUsed(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE scripts SET was_used = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark script used %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "sqlite: mark script used %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLiteScript(row scannable) (*model.ScriptRecord, error) {
	var (
		rec                                    model.ScriptRecord
		framework, confidence                  string
		content, personalization               string
		engagement, viralFactors, optimization string
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.IdeaID, &rec.ScriptType, &framework, &content,
		&rec.HookStrength, &rec.NarrativeFlowScore, &rec.AlgorithmOptimizationScore, &rec.RetentionScore,
		&rec.PredictedRetention, &rec.PredictedEngagement, &rec.PredictedCTR, &confidence,
		&engagement, &viralFactors, &optimization, &personalization,
		&rec.GenerationCost, &rec.WasUsed, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.FrameworkType = model.FrameworkType(framework)
	rec.ConfidenceLevel = model.ConfidenceLevel(confidence)
	rec.Content = []byte(content)
	rec.PersonalizationData = []byte(personalization)
	if err := decodeJSONColumns(&rec, []byte(engagement), []byte(viralFactors), []byte(optimization)); err != nil {
		return nil, err
	}
	return &rec, nil
}
