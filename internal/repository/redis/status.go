package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/zunw/ecommerce/internal/domain"
	"github.com/zunw/ecommerce/internal/repository"
	"github.com/zunw/ecommerce/pkg/breaker"
)

const keyPrefix = "status:"

// BreakerConfig is the circuit breaker configuration for the status cache.
// Cache misses count as successes.
func BreakerConfig() breaker.Config {
	cfg := breaker.DefaultConfig("redis-status-cache")
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, redis.Nil)
	}
	return cfg
}

// StatusCache is a read-through cache in front of a repository.StatusRepository.
// Statuses change rarely, so entries simply expire after the TTL. Redis
// failures are logged and the request falls through to the store; once the
// breaker opens Redis is skipped until it recovers.
type StatusCache struct {
	next   repository.StatusRepository
	client redis.Cmdable
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[[]byte]
	logger *slog.Logger
}

var _ repository.StatusRepository = (*StatusCache)(nil)

// NewStatusCache wraps next with a Redis cache guarded by cb.
func NewStatusCache(
	next repository.StatusRepository,
	client redis.Cmdable,
	ttl time.Duration,
	cb *gobreaker.CircuitBreaker[[]byte],
	logger *slog.Logger,
) *StatusCache {
	return &StatusCache{
		next:   next,
		client: client,
		ttl:    ttl,
		cb:     cb,
		logger: logger,
	}
}

// ListAll returns every status, from cache when possible.
func (c *StatusCache) ListAll(ctx context.Context) ([]domain.Status, error) {
	key := keyPrefix + "all"

	if data, ok := c.get(ctx, key); ok {
		var statuses []domain.Status
		if err := json.Unmarshal(data, &statuses); err == nil {
			return statuses, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt status cache entry", slog.String("key", key))
	}

	statuses, err := c.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(statuses)
	if err != nil {
		return nil, fmt.Errorf("marshal statuses: %w", err)
	}
	c.set(ctx, key, data)
	return statuses, nil
}

// FindIDByName resolves an exact name, from cache when possible.
func (c *StatusCache) FindIDByName(ctx context.Context, name string) (int64, error) {
	return c.findID(ctx, keyPrefix+"name:"+name, func() (int64, error) {
		return c.next.FindIDByName(ctx, name)
	})
}

// FindIDByLowerName resolves a name ignoring case, from cache when possible.
func (c *StatusCache) FindIDByLowerName(ctx context.Context, name string) (int64, error) {
	return c.findID(ctx, keyPrefix+"lower:"+strings.ToLower(name), func() (int64, error) {
		return c.next.FindIDByLowerName(ctx, name)
	})
}

// findID only caches successful lookups; not-found and ambiguous results
// always go to the store.
func (c *StatusCache) findID(ctx context.Context, key string, load func() (int64, error)) (int64, error) {
	if data, ok := c.get(ctx, key); ok {
		if id, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			return id, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt status cache entry", slog.String("key", key))
	}

	id, err := load()
	if err != nil {
		return 0, err
	}
	c.set(ctx, key, []byte(strconv.FormatInt(id, 10)))
	return id, nil
}

// get reports a hit only when Redis answered with a value.
func (c *StatusCache) get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.cb.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, key).Bytes()
	})
	switch {
	case err == nil:
		return data, true
	case !errors.Is(err, redis.Nil):
		c.warn(ctx, "get", key, err)
	}
	return nil, false
}

func (c *StatusCache) set(ctx context.Context, key string, value []byte) {
	_, err := c.cb.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, value, c.ttl).Err()
	})
	if err != nil {
		c.warn(ctx, "set", key, err)
	}
}

func (c *StatusCache) warn(ctx context.Context, op, key string, err error) {
	level := slog.LevelWarn
	if breaker.IsOpen(err) {
		level = slog.LevelDebug
	}
	c.logger.Log(ctx, level, "status cache unavailable",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
