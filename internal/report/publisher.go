package report

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/pkg/logger"
	"github.com/wonny/aegis-wheel/pkg/redis"
)

// Publisher caches the latest report in Redis for the API
type Publisher struct {
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewPublisher creates a new publisher. ttl <= 0 → redis.TTLWeek
func NewPublisher(cache *redis.Cache, ttl time.Duration, log *logger.Logger) *Publisher {
	if ttl <= 0 {
		ttl = redis.TTLWeek
	}
	return &Publisher{cache: cache, ttl: ttl, logger: log}
}

// Write stores the report under the latest key and its per-date key
func (p *Publisher) Write(ctx context.Context, rep *contracts.DecisionReport, data []byte) error {
	if !p.cache.Enabled() {
		return nil
	}

	if err := p.cache.SetRaw(ctx, redis.KeyDecisionLatest, data, p.ttl); err != nil {
		return fmt.Errorf("publish latest report: %w", err)
	}
	if rep.PortfolioDate != "" {
		if err := p.cache.SetRaw(ctx, redis.DecisionRunKey(rep.PortfolioDate), data, p.ttl); err != nil {
			return fmt.Errorf("publish report %s: %w", rep.PortfolioDate, err)
		}
	}

	p.logger.WithFields(map[string]interface{}{
		"run_id": rep.RunID,
		"key":    p.cache.FullKey(redis.KeyDecisionLatest),
		"ttl":    p.ttl.String(),
	}).Debug("Report published")
	return nil
}

// Latest returns the cached latest report bytes
func (p *Publisher) Latest(ctx context.Context) ([]byte, bool, error) {
	return p.cache.GetRaw(ctx, redis.KeyDecisionLatest)
}
