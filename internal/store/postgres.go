package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/script-analytics/internal/model"
	"github.com/sells-group/script-analytics/internal/resilience"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool. Statements are retried on
// transient errors and guarded by a breaker.
type PostgresStore struct {
	pool    Pool
	closeFn func()
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// PostgresOption customizes a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithRetry overrides the statement retry policy.
func WithRetry(cfg resilience.RetryConfig) PostgresOption {
	return func(s *PostgresStore) { s.retry = cfg }
}

// WithBreaker guards statements with b.
func WithBreaker(b *resilience.Breaker) PostgresOption {
	return func(s *PostgresStore) { s.breaker = b }
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig, opts ...PostgresOption) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	s := &PostgresStore{pool: pool, closeFn: pool.Close, retry: resilience.DefaultRetryConfig()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scripts (
	id                           TEXT PRIMARY KEY,
	user_id                      TEXT NOT NULL,
	idea_id                      TEXT NOT NULL DEFAULT '',
	script_type                  TEXT NOT NULL,
	framework_type               TEXT NOT NULL,
	content                      JSONB NOT NULL,
	hook_strength                INTEGER NOT NULL,
	narrative_flow_score         INTEGER NOT NULL,
	algorithm_optimization_score INTEGER NOT NULL,
	retention_score              INTEGER NOT NULL,
	predicted_retention          INTEGER NOT NULL,
	predicted_engagement         DOUBLE PRECISION NOT NULL,
	predicted_ctr                DOUBLE PRECISION NOT NULL,
	confidence_level             TEXT NOT NULL,
	engagement_prediction        JSONB NOT NULL,
	viral_factors                JSONB NOT NULL,
	optimization_data            JSONB NOT NULL,
	personalization_data         JSONB NOT NULL DEFAULT '{}'::jsonb,
	generation_cost              DOUBLE PRECISION NOT NULL DEFAULT 0,
	was_used                     BOOLEAN NOT NULL DEFAULT false,
	created_at                   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_scripts_user_created ON scripts(user_id, created_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_scripts_idea_variant
	ON scripts(user_id, idea_id, script_type, framework_type) WHERE idea_id <> '';
`

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// do runs fn through the breaker with retries.
func (s *PostgresStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	cfg := s.retry
	cfg.OnRetry = resilience.LogRetry("postgres", op)
	return resilience.Do(ctx, cfg, func(ctx context.Context) error {
		if s.breaker == nil {
			return fn(ctx)
		}
		return s.breaker.Call(ctx, fn)
	})
}

func (s *PostgresStore) SaveScript(ctx context.Context, rec *model.ScriptRecord) error {
	enc, err := prepareRecord(rec)
	if err != nil {
		return err
	}

	err = s.do(ctx, "save_script", func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO scripts (`+scriptColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
			rec.ID, rec.UserID, rec.IdeaID, rec.ScriptType, string(rec.FrameworkType), enc.content,
			rec.HookStrength, rec.NarrativeFlowScore, rec.AlgorithmOptimizationScore, rec.RetentionScore,
			rec.PredictedRetention, rec.PredictedEngagement, rec.PredictedCTR, string(rec.ConfidenceLevel),
			enc.engagement, enc.viralFactors, enc.optimization, enc.personalization,
			rec.GenerationCost, rec.WasUsed, rec.CreatedAt,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return eris.Wrapf(ErrDuplicate, "postgres: insert script for idea %s", rec.IdeaID)
		}
		return eris.Wrap(err, "postgres: insert script")
	}
	return nil
}

func (s *PostgresStore) GetScript(ctx context.Context, userID, id string) (*model.ScriptRecord, error) {
	var rec *model.ScriptRecord
	err := s.do(ctx, "get_script", func(ctx context.Context) error {
		var err error
		rec, err = scanPostgresScript(s.pool.QueryRow(ctx,
			`SELECT `+scriptColumns+` FROM scripts WHERE id = $1 AND user_id = $2`, id, userID))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get script %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get script %s", id)
	}
	return rec, nil
}

func (s *PostgresStore) ListScripts(ctx context.Context, filter ScriptFilter) ([]model.ScriptRecord, error) {
	query, args := listQuery(filter, func(n int) string { return fmt.Sprintf("$%d", n) })

	var out []model.ScriptRecord
	err := s.do(ctx, "list_scripts", func(ctx context.Context) error {
		out = nil
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanPostgresScript(rows)
			if err != nil {
				return err
			}
			out = append(out, *rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scripts")
	}
	return out, nil
}

func (s *PostgresStore) MarkScriptUsed(ctx context.Context, userID, id string) error {
	var tag pgconn.CommandTag
	err := s.do(ctx, "mark_script_used", func(ctx context.Context) error {
		var err error
		tag, err = s.pool.Exec(ctx, `UPDATE scripts SET was_used = true WHERE id = $1 AND user_id = $2`, id, userID)
		return err
	})
	if err != nil {
		return eris.Wrapf(err, "postgres: mark script used %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: mark script used %s", id)
	}
	return nil
}

func scanPostgresScript(row pgx.Row) (*model.ScriptRecord, error) {
	var (
		rec                                    model.ScriptRecord
		framework, confidence                  string
		content, personalization               []byte
		engagement, viralFactors, optimization []byte
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
	rec.Content = content
	rec.PersonalizationData = personalization
	if err := decodeJSONColumns(&rec, engagement, viralFactors, optimization); err != nil {
		return nil, err
	}
	return &rec, nil
}
