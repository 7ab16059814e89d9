package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

const (
	planConfigKeyPrefix = "billing:planconfig:"
	basePlanConfigTTL   = 30 * time.Minute
	planConfigTTLJitter = 10 * time.Minute // anti-stampede
	nullMarker          = "null"
	nullMarkerTTL       = 2 * time.Minute // anti-penetration for tiers with no override
)

// PlanConfigCache is a read-through Redis decorator over a plan override
// source. Cache failures degrade to the underlying source, never to an error.
type PlanConfigCache struct {
	client *redis.Client
	source billing.ConfigSource
	logger logger.Interface
}

func NewPlanConfigCache(client *redis.Client, source billing.ConfigSource, logger logger.Interface) *PlanConfigCache {
	return &PlanConfigCache{
		client: client,
		source: source,
		logger: logger,
	}
}

func (c *PlanConfigCache) key(tier billing.PlanTier) string {
	return planConfigKeyPrefix + tier.String()
}

// GetOverride implements billing.ConfigSource.
func (c *PlanConfigCache) GetOverride(ctx context.Context, tier billing.PlanTier) (*billing.PlanConfig, error) {
	key := c.key(tier)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == nullMarker {
			return nil, nil
		}
		var config billing.PlanConfig
		if err := json.Unmarshal([]byte(cached), &config); err == nil {
			return &config, nil
		}
		c.logger.Warnw("corrupt plan config cache entry, falling through", "tier", tier)
	case err != redis.Nil:
		c.logger.Warnw("plan config cache read failed, falling through", "tier", tier, "error", err)
	}

	config, err := c.source.GetOverride(ctx, tier)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, config)
	return config, nil
}

func (c *PlanConfigCache) store(ctx context.Context, key string, config *billing.PlanConfig) {
	if config == nil {
		if err := c.client.Set(ctx, key, nullMarker, nullMarkerTTL).Err(); err != nil {
			c.logger.Warnw("failed to cache plan config null marker", "key", key, "error", err)
		}
		return
	}

	data, err := json.Marshal(config)
	if err != nil {
		c.logger.Warnw("failed to marshal plan config for cache", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, planConfigTTLWithJitter()).Err(); err != nil {
		c.logger.Warnw("failed to cache plan config", "key", key, "error", err)
	}
}

// Invalidate drops the cached entry for a tier after an override is changed.
func (c *PlanConfigCache) Invalidate(ctx context.Context, tier billing.PlanTier) error {
	if err := c.client.Del(ctx, c.key(tier)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plan config cache: %w", err)
	}

	c.logger.Debugw("plan config cache invalidated", "tier", tier)
	return nil
}

// planConfigTTLWithJitter returns a randomized TTL to prevent cache stampede.
func planConfigTTLWithJitter() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(planConfigTTLJitter)))
	return basePlanConfigTTL + jitter
}
