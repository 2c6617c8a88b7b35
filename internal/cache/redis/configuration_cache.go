// Package redis caches resolved tax configurations in Redis hashes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gstengine/internal/config"
	"gstengine/internal/domain"
	"gstengine/internal/port"
)

// One hash per (code, business type, generation); one field per (zone, date).
// A write to any scope of the pair advances the generation, which orphans the
// old hash. Fields carry their own TTL.
const keyPrefix = "gst:cfg:"

// errStaleGeneration aborts a Set whose generation was overtaken.
var errStaleGeneration = errors.New("configuration cache generation advanced")

type configurationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewConfigurationCache connects to Redis and verifies the connection.
func NewConfigurationCache(ctx context.Context, cfg *config.CacheConfig) (port.ConfigurationCache, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return &configurationCache{rdb: rdb, ttl: cfg.TTL}, rdb, nil
}

func pairKey(codeID uuid.UUID, businessType string) string {
	return keyPrefix + codeID.String() + ":" + businessType
}

func generationKey(codeID uuid.UUID, businessType string) string {
	return pairKey(codeID, businessType) + ":gen"
}

func hashKey(codeID uuid.UUID, businessType string, generation int64) string {
	return pairKey(codeID, businessType) + ":" + strconv.FormatInt(generation, 10)
}

func field(q domain.RuleQuery) string {
	zone := "*"
	if q.Zone != nil {
		zone = *q.Zone
	}
	return zone + "|" + domain.FormatDate(q.AsOf)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, rdb getter, key string) (int64, error) {
	gen, err := rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *configurationCache) Get(ctx context.Context, q domain.RuleQuery) (*domain.TaxConfiguration, int64, error) {
	gen, err := readGeneration(ctx, c.rdb, generationKey(q.ClassificationCodeID, q.BusinessType))
	if err != nil {
		return nil, 0, fmt.Errorf("configurationCache.Get generation: %w", err)
	}
	raw, err := c.rdb.HGet(ctx, hashKey(q.ClassificationCodeID, q.BusinessType, gen), field(q)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, nil
		}
		return nil, 0, fmt.Errorf("configurationCache.Get: %w", err)
	}
	var cfg domain.TaxConfiguration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, 0, fmt.Errorf("configurationCache.Get decode: %w", err)
	}
	return &cfg, gen, nil
}

// Set writes under WATCH on the generation key, so an Invalidate that lands
// between the caller's Get and this write makes it a no-op.
func (c *configurationCache) Set(ctx context.Context, q domain.RuleQuery, generation int64, cfg *domain.TaxConfiguration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("configurationCache.Set encode: %w", err)
	}
	genKey := generationKey(q.ClassificationCodeID, q.BusinessType)
	key := hashKey(q.ClassificationCodeID, q.BusinessType, generation)
	f := field(q)

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, f, raw)
			if c.ttl > 0 {
				pipe.HExpire(ctx, key, c.ttl, f)
			}
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil, errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("configurationCache.Set: %w", err)
	}
}

func (c *configurationCache) Invalidate(ctx context.Context, codeID uuid.UUID, businessType string) error {
	gen, err := c.rdb.Incr(ctx, generationKey(codeID, businessType)).Result()
	if err != nil {
		return fmt.Errorf("configurationCache.Invalidate: %w", err)
	}
	if err := c.rdb.Del(ctx, hashKey(codeID, businessType, gen-1)).Err(); err != nil {
		return fmt.Errorf("configurationCache.Invalidate drop: %w", err)
	}
	return nil
}
