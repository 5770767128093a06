package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/script-analytics/internal/analyzer"
	"github.com/sells-group/script-analytics/internal/model"
	"github.com/sells-group/script-analytics/internal/resilience"
	"github.com/sells-group/script-analytics/internal/service"
	"github.com/sells-group/script-analytics/internal/store"
)

// openStore opens and migrates the configured store.
func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		breakerCfg := resilience.BreakerFromConfig(cfg.Store.BreakerThreshold, cfg.Store.BreakerCooldownSecs)
		breakerCfg.OnStateChange = func(from, to resilience.BreakerState) {
			zap.L().Warn("postgres circuit breaker",
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		}
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL,
			&store.PoolConfig{MaxConns: cfg.Store.MaxConns, MinConns: cfg.Store.MinConns},
			store.WithRetry(resilience.FromConfig(cfg.Store.RetryMaxAttempts, cfg.Store.RetryInitialBackoffMs, cfg.Store.RetryMaxBackoffMs)),
			store.WithBreaker(resilience.NewBreaker(breakerCfg)),
		)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(analyzer.Options{
		DefaultNiche:          cfg.Analyzer.DefaultNiche,
		DefaultEngagementRate: cfg.Analyzer.DefaultEngagementRate,
		NicheBonusCap:         cfg.Analyzer.NicheBonusCap,
	})
}

// newService builds the service over st, which may be nil.
func newService(st store.Store) *service.Service {
	return service.New(st, newAnalyzer(), cfg.Pricing)
}

// readScript parses a script document from path, or from stdin when path
// is "-".
func readScript(path string, stdin io.Reader) (model.Script, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read script %s", path)
	}
	return model.ParseScript(data)
}

// loadChannel reads an optional channel context file. An empty path means
// no context.
func loadChannel(path string) (*model.ChannelContext, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read channel context %s", path)
	}
	var ch model.ChannelContext
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, eris.Wrapf(err, "parse channel context %s", path)
	}
	return &ch, nil
}
