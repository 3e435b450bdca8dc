package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/aegis-wheel/internal/brain"
	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/portfolio"
	"github.com/wonny/aegis-wheel/internal/report"
	"github.com/wonny/aegis-wheel/internal/s0_snapshot"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
	"github.com/wonny/aegis-wheel/pkg/config"
	"github.com/wonny/aegis-wheel/pkg/database"
	"github.com/wonny/aegis-wheel/pkg/logger"
	"github.com/wonny/aegis-wheel/pkg/metrics"
	"github.com/wonny/aegis-wheel/pkg/redis"
)

// snapshotCacheTTL bounds memoized capture dates within one process
const snapshotCacheTTL = 5 * time.Minute

// runtime holds the wired dependencies shared by commands
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	metrics  *metrics.Recorder
	db       *database.DB // nil = 스냅샷 저장소 없음
	reader   contracts.SnapshotReader
	redis    *redis.Client
	cache    *redis.Cache
	strategy *strategyconfig.Config
}

// runtimeOptions overrides config for a single invocation
type runtimeOptions struct {
	chainFile string // offline snapshot instead of Postgres
	noStore   bool   // skip the snapshot store entirely
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// newRuntime wires the store, cache and engine config.
// A missing or unreachable store is not fatal: runs degrade to empty snapshot sections.
func newRuntime(ctx context.Context, cfg *config.Config, log *logger.Logger, opts runtimeOptions) (*runtime, error) {
	rt := &runtime{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
	}

	strategy, err := strategyconfig.LoadOrDefault(cfg.StrategyPath)
	if err != nil {
		return nil, err
	}
	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	rt.strategy = strategy

	switch {
	case opts.noStore:
	case opts.chainFile != "":
		store, err := s0_snapshot.LoadFixture(opts.chainFile, cfg.Database.SymbolPrefix)
		if err != nil {
			return nil, fmt.Errorf("load chain file: %w", err)
		}
		rt.reader = store
		log.WithField("path", opts.chainFile).Info("Using offline chain file")
	case cfg.Database.Enabled():
		db, err := database.New(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("Snapshot store unreachable, snapshot sections will be empty")
			rt.metrics.RecordMissingData("store")
			break
		}
		rt.db = db
		repo := s0_snapshot.NewRepository(db.Pool, cfg.Database.Schema, cfg.Database.SymbolPrefix)
		rt.reader = s0_snapshot.NewCachedReader(repo, snapshotCacheTTL)
	default:
		log.Warn("DATABASE_URL not set, snapshot sections will be empty")
	}

	client, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, report will not be published")
		client, _ = redis.New(ctx, &config.Config{})
	}
	rt.redis = client
	rt.cache = redis.NewCache(client, cfg.Redis.Prefix)

	return rt, nil
}

// orchestrator builds the decision orchestrator with file + cache sinks
func (rt *runtime) orchestrator(outPath string) (*brain.Orchestrator, error) {
	source, err := portfolio.NewSource(rt.cfg, rt.log)
	if err != nil {
		return nil, err
	}

	o, err := brain.NewOrchestrator(source, rt.reader, rt.strategy, rt.metrics, rt.log)
	if err != nil {
		return nil, err
	}
	if outPath != "" {
		o.WithWriter(report.NewFileWriter(outPath, rt.log))
	}
	if rt.cache.Enabled() {
		o.WithPublishers(report.NewPublisher(rt.cache, rt.cfg.Redis.ReportTTL, rt.log))
	}
	return o, nil
}

// pushMetrics pushes run metrics when a Pushgateway is configured
func (rt *runtime) pushMetrics() {
	if !rt.cfg.Metrics.Enabled || rt.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := rt.metrics.Push(rt.cfg.Metrics.PushgatewayURL, rt.cfg.Metrics.Job); err != nil {
		rt.log.WithError(err).Warn("Metrics push failed")
	}
}

func (rt *runtime) Close() {
	rt.db.Close()
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
}
