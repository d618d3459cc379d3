// Package cache keeps rendered organizer trees in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/ports"
)

const keyPrefix = "linkshelf:tree:"

// RedisTreeCache stores one JSON-encoded tree per user with a TTL.
type RedisTreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTreeCache connects to redisURL and checks the connection.
func NewRedisTreeCache(redisURL string, ttl time.Duration) (*RedisTreeCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisTreeCacheWithClient(client, ttl), nil
}

// NewRedisTreeCacheWithClient wraps an existing client.
func NewRedisTreeCacheWithClient(client *redis.Client, ttl time.Duration) *RedisTreeCache {
	return &RedisTreeCache{client: client, ttl: ttl}
}

func (c *RedisTreeCache) key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

// versionKey holds the user's invalidation counter. It has no TTL: a
// counter that disappeared could restart at a value a slow reader still
// holds.
func (c *RedisTreeCache) versionKey(userID int64) string {
	return c.key(userID) + ":version"
}

// Get returns the cached tree, or ok=false on a miss.
func (c *RedisTreeCache) Get(ctx context.Context, userID int64) (*domain.Tree, bool, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get tree: %w", err)
	}

	var tree domain.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false, fmt.Errorf("unmarshal tree: %w", err)
	}
	tree.Normalize()
	return &tree, true, nil
}

// Version returns the user's invalidation counter, 0 before the first
// invalidation.
func (c *RedisTreeCache) Version(ctx context.Context, userID int64) (int64, error) {
	return readVersion(ctx, c.client, c.versionKey(userID))
}

// Set stores tree only if no invalidation happened since version was read.
// A stale write is dropped without error.
func (c *RedisTreeCache) Set(ctx context.Context, userID, version int64, tree *domain.Tree) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}

	versionKey := c.versionKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, versionKey)
		if err != nil {
			return err
		}
		if current != version {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(userID), data, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil, errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("save tree: %w", err)
	}
}

// Invalidate drops the entry and bumps the version in one transaction.
func (c *RedisTreeCache) Invalidate(ctx context.Context, userID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey(userID))
		pipe.Del(ctx, c.key(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate tree: %w", err)
	}
	return nil
}

var errStale = errors.New("tree version moved")

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, cmd getter, key string) (int64, error) {
	v, err := cmd.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read tree version: %w", err)
	}
	return v, nil
}

// Ping checks if Redis is reachable
func (c *RedisTreeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisTreeCache) Close() error {
	return c.client.Close()
}

// New returns a Redis-backed cache, or Noop when redisURL is empty.
func New(redisURL string, ttl time.Duration) (ports.TreeCache, error) {
	if redisURL == "" {
		return Noop{}, nil
	}
	c, err := NewRedisTreeCache(redisURL, ttl)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Noop never stores anything. It is used when no Redis URL is configured.
type Noop struct{}

func (Noop) Get(context.Context, int64) (*domain.Tree, bool, error) { return nil, false, nil }
func (Noop) Version(context.Context, int64) (int64, error)          { return 0, nil }
func (Noop) Set(context.Context, int64, int64, *domain.Tree) error  { return nil }
func (Noop) Invalidate(context.Context, int64) error                { return nil }

var (
	_ ports.TreeCache = (*RedisTreeCache)(nil)
	_ ports.TreeCache = Noop{}
)
