package comment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CountSnapshot is one read of a post's cached count. Version is the
// invalidation generation seen by the read.
type CountSnapshot struct {
	N       int64
	Hit     bool
	Version int64
}

// CountCache holds per-post comment counts. Set stores n only if no
// Invalidate happened since the Get that returned version.
type CountCache interface {
	Get(ctx context.Context, postID uint64) (CountSnapshot, error)
	Set(ctx context.Context, postID uint64, n, version int64) error
	Invalidate(ctx context.Context, postID uint64) error
}

const versionTTL = 24 * time.Hour

// KEYS[1] count, KEYS[2] version; ARGV n, version, ttl ms.
var setIfVersion = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if (v or '0') ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

type redisCountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCountCache(rdb *redis.Client, ttl time.Duration) CountCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisCountCache{rdb: rdb, ttl: ttl}
}

func countKey(postID uint64) string   { return fmt.Sprintf("comments:count:%d", postID) }
func versionKey(postID uint64) string { return fmt.Sprintf("comments:count:%d:ver", postID) }

func (c *redisCountCache) Get(ctx context.Context, postID uint64) (CountSnapshot, error) {
	vals, err := c.rdb.MGet(ctx, countKey(postID), versionKey(postID)).Result()
	if err != nil {
		return CountSnapshot{}, err
	}
	var snap CountSnapshot
	if snap.Version, _, err = parseCount(vals[1]); err != nil {
		return CountSnapshot{}, fmt.Errorf("count version: %w", err)
	}
	if snap.N, snap.Hit, err = parseCount(vals[0]); err != nil {
		return CountSnapshot{}, fmt.Errorf("count value: %w", err)
	}
	return snap, nil
}

func (c *redisCountCache) Set(ctx context.Context, postID uint64, n, version int64) error {
	keys := []string{countKey(postID), versionKey(postID)}
	return setIfVersion.Run(ctx, c.rdb, keys, n, version, c.ttl.Milliseconds()).Err()
}

func (c *redisCountCache) Invalidate(ctx context.Context, postID uint64) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(postID))
		pipe.Expire(ctx, versionKey(postID), versionTTL)
		pipe.Del(ctx, countKey(postID))
		return nil
	})
	return err
}

// parseCount reads an MGET slot, which is nil for a missing key.
func parseCount(v any) (int64, bool, error) {
	s, ok := v.(string)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

type nopCountCache struct{}

func (nopCountCache) Get(context.Context, uint64) (CountSnapshot, error) { return CountSnapshot{}, nil }
func (nopCountCache) Set(context.Context, uint64, int64, int64) error    { return nil }
func (nopCountCache) Invalidate(context.Context, uint64) error           { return nil }
